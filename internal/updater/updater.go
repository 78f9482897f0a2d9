// Package updater performs a best-effort check for newer releases on
// GitHub.  Every failure path is silent toward the player; the check can
// only ever add an informational notice, never block the game.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/procha/masmorra/internal/config"
	"github.com/procha/masmorra/internal/version"
)

const stateFile = "verificacao_atualizacao.yaml"

// Notice is what the player sees when a newer release exists.
type Notice struct {
	CurrentVersion string
	LatestVersion  string
	URL            string
}

// Checker consults the GitHub releases API at most once per configured
// interval.
type Checker struct {
	cfg      config.UpdaterConfig
	baseURL  string
	client   *http.Client
	stateDir string
	logger   *zap.Logger
	now      func() time.Time
}

// NewChecker builds a Checker that remembers its last run under stateDir.
func NewChecker(cfg config.UpdaterConfig, stateDir string, logger *zap.Logger) *Checker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Checker{
		cfg:      cfg,
		baseURL:  "https://api.github.com",
		client:   &http.Client{Timeout: timeout},
		stateDir: stateDir,
		logger:   logger,
		now:      time.Now,
	}
}

// interval translates the configured frequency into a minimum gap
// between checks.
func (c *Checker) interval() time.Duration {
	switch c.cfg.Frequency {
	case "diaria":
		return 24 * time.Hour
	case "mensal":
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Check returns a Notice when a newer release is available, or nil when
// up to date, rate limited, disabled, or on any failure.
//
// Postcondition: never returns an error; network problems only log.
func (c *Checker) Check(ctx context.Context) *Notice {
	if !c.cfg.Enabled || c.cfg.Repo == "" {
		return nil
	}
	if last, ok := c.lastCheck(); ok && c.now().Sub(last) < c.interval() {
		return nil
	}
	tag, url, err := c.latestRelease(ctx)
	if err != nil {
		c.logger.Debug("verificacao de atualizacao falhou", zap.Error(err))
		return nil
	}
	c.recordCheck()
	if !newerThan(tag, version.Version) {
		return nil
	}
	c.logger.Info("nova versao disponivel",
		zap.String("atual", version.Version),
		zap.String("mais_recente", tag))
	return &Notice{CurrentVersion: version.Version, LatestVersion: tag, URL: url}
}

func (c *Checker) latestRelease(ctx context.Context) (tag, url string, err error) {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, c.cfg.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("releases/latest respondeu %d", resp.StatusCode)
	}
	var release struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", "", err
	}
	if release.TagName == "" {
		return "", "", fmt.Errorf("release sem tag")
	}
	return release.TagName, release.HTMLURL, nil
}

func (c *Checker) statePath() string {
	return filepath.Join(c.stateDir, stateFile)
}

func (c *Checker) lastCheck() (time.Time, bool) {
	v := viper.New()
	v.SetConfigFile(c.statePath())
	if err := v.ReadInConfig(); err != nil {
		return time.Time{}, false
	}
	raw := v.GetString("ultima_verificacao")
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return last, true
}

func (c *Checker) recordCheck() {
	if err := os.MkdirAll(c.stateDir, 0o755); err != nil {
		c.logger.Debug("gravando estado de verificacao", zap.Error(err))
		return
	}
	v := viper.New()
	v.SetConfigFile(c.statePath())
	v.Set("ultima_verificacao", c.now().UTC().Format(time.RFC3339))
	if err := v.WriteConfig(); err != nil {
		c.logger.Debug("gravando estado de verificacao", zap.Error(err))
	}
}

// newerThan reports whether tag is a strictly newer semver than current.
// Unparseable tags compare as not newer.
func newerThan(tag, current string) bool {
	a, okA := parseSemver(tag)
	b, okB := parseSemver(current)
	if !okA || !okB {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func parseSemver(v string) ([3]int, bool) {
	var out [3]int
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	parts := strings.SplitN(v, ".", 3)
	for i, part := range parts {
		if i >= 3 {
			break
		}
		if j := strings.IndexAny(part, "-+"); j >= 0 {
			part = part[:j]
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return out, false
		}
		out[i] = n
	}
	return out, len(parts) > 0
}
