package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type NATSConfig struct {
	URL            string `mapstructure:"url"`
	RequestTimeout int    `mapstructure:"request_timeout"`
	PaymentSubject string `mapstructure:"payment_subject"`
	UsersSubject   string `mapstructure:"users_subject"`
	PointsSubject  string `mapstructure:"points_subject"`
	OrdersSubject  string `mapstructure:"orders_subject"`
}

type ScheduleConfig struct {
	Timezone           string `mapstructure:"timezone"`
	CutCron            string `mapstructure:"cut_cron"`
	WeeklyCron         string `mapstructure:"weekly_cron"`
	WeeklyCronFallback string `mapstructure:"weekly_cron_fallback"`
}

// MembershipConfig carries the business knobs of the membership lifecycle.
type MembershipConfig struct {
	GraceDays                int    `mapstructure:"grace_days"`
	RenewalWindowDays        int    `mapstructure:"renewal_window_days"`
	FreeReconsumptionAmount  string `mapstructure:"free_reconsumption_amount"`
	DefaultMinReconsumption  string `mapstructure:"default_min_reconsumption"`
}
