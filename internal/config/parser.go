package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser reads Lua config files with the host platform injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a config parser. A nil detector leaves the platform
// table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile reads and parses the Lua config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*FileConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if info.Size() > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", path, info.Size(), MaxConfigSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*FileConfig, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, &ParseError{Message: "config evaluation timed out", Detail: ctx.Err().Error()}
		}
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	detail := e.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", e.Message, detail)
}

// extractConfig reads the global "setup" table. A file that does not
// define it sets nothing.
func extractConfig(L *lua.LState) (*FileConfig, error) {
	global := L.GetGlobal(luaGlobalSetup)
	if global.Type() == lua.LTNil {
		return &FileConfig{}, nil
	}
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "invalid 'setup' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	cfg := &FileConfig{}
	var err error

	if cfg.Version, err = stringField(table, luaFieldVersion); err != nil {
		return nil, err
	}
	if cfg.CacheDir, err = stringField(table, luaFieldCacheDir); err != nil {
		return nil, err
	}
	if cfg.GitHubAPIURL, err = stringField(table, luaFieldGitHubAPIURL); err != nil {
		return nil, err
	}
	if cfg.DownloadBaseURL, err = stringField(table, luaFieldDownloadBase); err != nil {
		return nil, err
	}

	switch v := table.RawGetString(luaFieldNoAuth).(type) {
	case *lua.LNilType:
	case lua.LBool:
		b := bool(v)
		cfg.NoAuth = &b
	default:
		return nil, fieldTypeError(luaFieldNoAuth, "boolean", v)
	}

	switch v := table.RawGetString(luaFieldRecentReleases).(type) {
	case *lua.LNilType:
	case lua.LNumber:
		n := int(v)
		if float64(n) != float64(v) {
			return nil, &ParseError{Message: "invalid " + luaFieldRecentReleases, Detail: fmt.Sprintf("expected integer, got %v", v)}
		}
		cfg.RecentReleases = &n
	default:
		return nil, fieldTypeError(luaFieldRecentReleases, "number", v)
	}

	// attempt_timeout is a Go duration string or a number of seconds
	switch v := table.RawGetString(luaFieldAttemptTimeout).(type) {
	case *lua.LNilType:
	case lua.LNumber:
		d := time.Duration(float64(v) * float64(time.Second))
		cfg.AttemptTimeout = &d
	case lua.LString:
		d, err := time.ParseDuration(string(v))
		if err != nil {
			return nil, &ParseError{Message: "invalid " + luaFieldAttemptTimeout, Detail: err.Error()}
		}
		cfg.AttemptTimeout = &d
	default:
		return nil, fieldTypeError(luaFieldAttemptTimeout, "duration string or number", v)
	}

	return cfg, nil
}

func stringField(table *lua.LTable, name string) (*string, error) {
	switch v := table.RawGetString(name).(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LString:
		s := strings.TrimSpace(string(v))
		return &s, nil
	default:
		return nil, fieldTypeError(name, "string", v)
	}
}

func fieldTypeError(name, want string, got lua.LValue) error {
	return &ParseError{
		Message: "invalid " + name,
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}
