package aiida

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrUnsupportedBackend is returned for storage backends that cannot be
// queried over SQL (for example read-only archives).
var ErrUnsupportedBackend = errors.New("unsupported aiida storage backend")

// Engine is the SQL database flavor behind a profile.
type Engine string

const (
	EnginePostgres Engine = "postgres"
	EngineSQLite   Engine = "sqlite"
)

// SQLiteDatabaseFile is the database file inside a sqlite_dos storage folder.
const SQLiteDatabaseFile = "database.sqlite"

// Profile holds the storage parameters of one AiiDA profile.
type Profile struct {
	Name    string `json:"name"`
	Backend string `json:"backend"` // e.g. "core.psql_dos", "django", "sqlalchemy"
	Engine  Engine `json:"engine"`

	// PostgreSQL
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"-"`

	// SQLite
	Path string `json:"path,omitempty"`
}

// DSN returns the driver connection string for the profile.
func (p *Profile) DSN() string {
	switch p.Engine {
	case EngineSQLite:
		return (&url.URL{Scheme: "file", Path: p.Path, RawQuery: "mode=ro"}).String()
	default:
		u := &url.URL{Scheme: "postgres", Path: "/" + p.Database}
		host := p.Host
		if host == "" {
			host = "localhost"
		}
		if p.Port > 0 {
			host = net.JoinHostPort(host, strconv.Itoa(p.Port))
		}
		u.Host = host
		if p.Username != "" {
			if p.Password != "" {
				u.User = url.UserPassword(p.Username, p.Password)
			} else {
				u.User = url.User(p.Username)
			}
		}
		u.RawQuery = "sslmode=disable"
		return u.String()
	}
}

// Location describes where the profile's data lives, without credentials.
func (p *Profile) Location() string {
	if p.Engine == EngineSQLite {
		return p.Path
	}
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	if p.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(p.Port))
	}
	return fmt.Sprintf("%s/%s", host, p.Database)
}

func parseProfile(name string, entry gjson.Result) (*Profile, error) {
	// AiiDA >= 2.0 nests storage parameters.
	if storage := entry.Get("storage"); storage.Exists() {
		return parseStorageProfile(name, storage)
	}
	// AiiDA 0.x and 1.x use flat AIIDADB_* keys.
	if entry.Get("AIIDADB_NAME").Exists() || entry.Get("AIIDADB_ENGINE").Exists() {
		return parseLegacyProfile(name, entry)
	}
	return nil, fmt.Errorf("profile %q: no storage configuration", name)
}

func parseStorageProfile(name string, storage gjson.Result) (*Profile, error) {
	backend := storage.Get("backend").String()
	cfg := storage.Get("config")
	p := &Profile{Name: name, Backend: backend}

	switch strings.TrimPrefix(backend, "core.") {
	case "psql_dos":
		p.Engine = EnginePostgres
		p.Host = cfg.Get("database_hostname").String()
		p.Port = int(cfg.Get("database_port").Int())
		p.Database = cfg.Get("database_name").String()
		p.Username = cfg.Get("database_username").String()
		p.Password = cfg.Get("database_password").String()
	case "sqlite_dos":
		folder := cfg.Get("filepath").String()
		if folder == "" {
			return nil, fmt.Errorf("profile %q: sqlite storage without filepath", name)
		}
		p.Engine = EngineSQLite
		p.Path = filepath.Join(folder, SQLiteDatabaseFile)
	default:
		return nil, fmt.Errorf("%w: profile %q uses %q", ErrUnsupportedBackend, name, backend)
	}

	if p.Engine == EnginePostgres && p.Database == "" {
		return nil, fmt.Errorf("profile %q: missing database_name", name)
	}
	return p, nil
}

func parseLegacyProfile(name string, entry gjson.Result) (*Profile, error) {
	engine := entry.Get("AIIDADB_ENGINE").String()
	if engine != "" && !strings.HasPrefix(engine, "postgresql") {
		return nil, fmt.Errorf("%w: profile %q uses database engine %q", ErrUnsupportedBackend, name, engine)
	}

	p := &Profile{
		Name:     name,
		Backend:  entry.Get("AIIDADB_BACKEND").String(),
		Engine:   EnginePostgres,
		Host:     entry.Get("AIIDADB_HOST").String(),
		Database: entry.Get("AIIDADB_NAME").String(),
		Username: entry.Get("AIIDADB_USER").String(),
		Password: entry.Get("AIIDADB_PASS").String(),
	}
	// The port is a string in 0.x configs and a number in 1.x.
	if port := entry.Get("AIIDADB_PORT"); port.Exists() && port.String() != "" {
		n, err := strconv.Atoi(port.String())
		if err != nil {
			return nil, fmt.Errorf("profile %q: invalid AIIDADB_PORT %q", name, port.String())
		}
		p.Port = n
	}
	if p.Database == "" {
		return nil, fmt.Errorf("profile %q: missing AIIDADB_NAME", name)
	}
	return p, nil
}
