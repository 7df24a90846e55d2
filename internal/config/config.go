package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tenancy-recon/internal/reconcile/model"
)

// User is one basic-auth credential pair from TENANCY_USERS_JSON.
type User struct {
	U string `json:"u"`
	P string `json:"p"`
}

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	DataDir      string
	CommentsDB   string
	Users        []User
	Thresholds   model.Thresholds
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/tenancy-recon.log"),
		DataDir:      getenv("DATA_DIR", "data"),
		CommentsDB:   getenv("COMMENTS_DB", "data/comments.db"),
		Users:        loadUsers(),
		Thresholds:   loadThresholds(),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// MappingPath is the tenant dictionary file inside the data dir.
func (c Config) MappingPath() string {
	return getenv("TENANT_MAP", c.DataDir+"/tenant_map.json")
}

func loadUsers() []User {
	raw := os.Getenv("TENANCY_USERS_JSON")
	if raw == "" {
		return nil
	}
	var users []User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil
	}
	out := users[:0]
	for _, u := range users {
		if u.U != "" && u.P != "" {
			out = append(out, u)
		}
	}
	return out
}

// loadThresholds starts from the tuned defaults and lets env vars override
// individual values.
func loadThresholds() model.Thresholds {
	th := model.DefaultThresholds()
	th.SpaceHighlight = getfloat("SPACE_HL", th.SpaceHighlight)
	th.RentHighlight = getfloat("RENT_HL", th.RentHighlight)
	th.WaltHighlight = getfloat("WALT_HL", th.WaltHighlight)
	th.SpaceDisplay = getfloat("SPACE_D", th.SpaceDisplay)
	th.RentDisplay = getfloat("RENT_D", th.RentDisplay)
	th.WaltDisplay = getfloat("WALT_D", th.WaltDisplay)
	return th
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
