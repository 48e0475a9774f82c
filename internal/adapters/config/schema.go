package config

// Settingsfile represents the structure of the pkgman.yaml settings file.
type Settingsfile struct {
	Script   string       `yaml:"script"`
	Makefile string       `yaml:"makefile"`
	Registry *RegistryDTO `yaml:"registry"`
	Timeout  string       `yaml:"timeout"`
	Jobs     int          `yaml:"jobs"`
}

// RegistryDTO represents the package registry coordinates in the settings file.
type RegistryDTO struct {
	User   string `yaml:"user"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
	RawURL string `yaml:"raw_url"`
	APIURL string `yaml:"api_url"`
}
