package http

type Config struct {
	Port        uint   `mapstructure:"port"`
	AdminAPIKey string `mapstructure:"admin_api_key"`
	AuthSecret  string `mapstructure:"auth_secret"`
}
