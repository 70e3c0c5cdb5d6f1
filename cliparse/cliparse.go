package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port          int
	HomeserverURL string
	DataPath      string
	BallotsRoot   string
	VoterID       string
	SessionToken  string
	PollInterval  int
	ProjectsFile  string
}

// ParseFlags validates flags and fills defaults from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("voteboard", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.HomeserverURL, "s", "", "Homeserver base URL")
	fs.StringVar(&cfg.DataPath, "d", "", "Local store path")
	fs.StringVar(&cfg.BallotsRoot, "ballots-root", "", "Remote ballots namespace root")
	fs.IntVar(&cfg.PollInterval, "i", 0, "Leaderboard poll interval in seconds")
	fs.StringVar(&cfg.ProjectsFile, "f", "", "Project catalogue seed file (JSON)")

	// Identity (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.VoterID, "voter", "", "Voter id (prefer env)")
	fs.StringVar(&cfg.SessionToken, "session-token", "", "Homeserver session token (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3325 // default
		}
	}

	if cfg.HomeserverURL == "" {
		cfg.HomeserverURL = os.Getenv("HOMESERVER_URL")
	}
	if cfg.HomeserverURL == "" {
		return Config{}, errors.New("homeserver URL required (use -s or HOMESERVER_URL env)")
	}

	if cfg.DataPath == "" {
		cfg.DataPath = os.Getenv("DATA_PATH")
		if cfg.DataPath == "" {
			cfg.DataPath = "data/voteboard.db"
		}
	}

	if cfg.BallotsRoot == "" {
		cfg.BallotsRoot = os.Getenv("BALLOTS_ROOT")
	}

	if cfg.PollInterval == 0 {
		if s := os.Getenv("POLL_INTERVAL"); s != "" {
			secs, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid POLL_INTERVAL env variable")
			}
			cfg.PollInterval = secs
		} else {
			cfg.PollInterval = 10
		}
	}
	if cfg.PollInterval < 1 {
		return Config{}, errors.New("poll interval must be at least 1 second")
	}

	// Identity is optional: the service runs read-only without it, and the
	// outbox holds submissions until a session shows up.
	if cfg.VoterID == "" {
		cfg.VoterID = os.Getenv("VOTER_ID")
	}
	if cfg.SessionToken == "" {
		cfg.SessionToken = os.Getenv("SESSION_TOKEN")
	}

	if cfg.ProjectsFile == "" {
		cfg.ProjectsFile = os.Getenv("PROJECTS_FILE")
	}

	return cfg, nil
}
