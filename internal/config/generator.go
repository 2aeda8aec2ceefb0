package config

import (
	"bytes"
	"fmt"
	"strings"
)

// Generator renders a Config as a Lua config file.
type Generator struct {
	indent string
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{indent: "  "}
}

// Generate returns Lua code that reproduces cfg's file-settable fields.
// The token is never written.
func (g *Generator) Generate(cfg *Config) string {
	var buf bytes.Buffer

	buf.WriteString("-- setup-doctl configuration\n")
	buf.WriteString(luaGlobalSetup + " = {\n")

	g.writeString(&buf, luaFieldVersion, cfg.Version)
	g.writeField(&buf, luaFieldNoAuth, fmt.Sprintf("%t", cfg.NoAuth))
	g.writeField(&buf, luaFieldRecentReleases, fmt.Sprintf("%d", cfg.RecentReleases))
	if cfg.AttemptTimeout > 0 {
		g.writeString(&buf, luaFieldAttemptTimeout, cfg.AttemptTimeout.String())
	}
	if cfg.CacheDir != "" {
		g.writeString(&buf, luaFieldCacheDir, cfg.CacheDir)
	}
	g.writeString(&buf, luaFieldGitHubAPIURL, cfg.GitHubAPIURL)
	g.writeString(&buf, luaFieldDownloadBase, cfg.DownloadBaseURL)

	buf.WriteString("}\n")
	return buf.String()
}

func (g *Generator) writeString(buf *bytes.Buffer, key, value string) {
	g.writeField(buf, key, g.quoteLuaString(value))
}

func (g *Generator) writeField(buf *bytes.Buffer, key, value string) {
	buf.WriteString(g.indent)
	buf.WriteString(key)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteString(",\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
