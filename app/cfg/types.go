package cfg

type Cfg struct {
	// Storage
	DBPath string

	// Application configuration
	FeedsDir     string
	Port         string
	WorkerCount  int
	Schedule     string
	APIAccessKey string
	BuzzWords    []string
	Once         bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
