package update

import (
	"os"
	"strconv"
	"strings"
)

const defaultPageSize = 5

type RuntimeConfig struct {
	DBPath               string
	PageSize             int
	AttachmentBucket     string
	AWSRegion            string
	AWSProfile           string
	DesktopNotifications bool
	SchedulerBuffer      int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:          "dayplan.db",
		PageSize:        defaultPageSize,
		SchedulerBuffer: 64,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("DAYPLAN_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvInt("DAYPLAN_PAGE_SIZE"); ok && v > 0 {
		cfg.PageSize = v
	}
	if v := strings.TrimSpace(os.Getenv("DAYPLAN_ATTACHMENT_BUCKET")); v != "" {
		cfg.AttachmentBucket = v
	}
	if v := strings.TrimSpace(os.Getenv("DAYPLAN_AWS_REGION")); v != "" {
		cfg.AWSRegion = v
	}
	if v := strings.TrimSpace(os.Getenv("DAYPLAN_AWS_PROFILE")); v != "" {
		cfg.AWSProfile = v
	}
	if v, ok := getEnvBool("DAYPLAN_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("DAYPLAN_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
