package stream

// Config for the MQTT connection.
type Config struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topics   struct {
		Frames   string `yaml:"frames"`
		Commands string `yaml:"commands"`
		Status   string `yaml:"status"`
	} `yaml:"topics"`
}

// Enabled reports whether a broker is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
