// Package verify re-checks that the roster's platform usernames still
// point at live public profiles. The profile sites answer a dead username
// in different ways: some redirect to their homepage, some serve a GraphQL
// error document, some serve their generic landing page under a 200. Each
// platform gets its own detector; the verdicts update the store's
// existence flags and are appended to per-platform audit files.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/coderank-hub/coderank/internal/domain/student"
	"github.com/coderank-hub/coderank/internal/infrastructure/external/httpapi"
	"github.com/coderank-hub/coderank/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds the profile endpoints the verifier probes.
type Config struct {
	CodeforcesBaseURL    string
	CodeChefBaseURL      string
	GeeksforGeeksBaseURL string
	LeetCodeBaseURL      string
	HackerRankBaseURL    string

	// LogDir receives the <platform>_handles.txt audit files.
	LogDir string

	Logger *slog.Logger
}

// DefaultConfig returns the production profile endpoints.
func DefaultConfig() Config {
	return Config{
		CodeforcesBaseURL:    "https://codeforces.com/profile",
		CodeChefBaseURL:      "https://www.codechef.com/users",
		GeeksforGeeksBaseURL: "https://auth.geeksforgeeks.org/user",
		LeetCodeBaseURL:      "https://leetcode.com",
		HackerRankBaseURL:    "https://www.hackerrank.com/profile",
	}
}

// hackerRankLandingTitle appears on the generic page HackerRank serves
// instead of a 404 when a profile does not exist.
const hackerRankLandingTitle = "Programming Problems and Competitions :: HackerRank"

// ══════════════════════════════════════════════════════════════════════════════
// VERIFIER
// ══════════════════════════════════════════════════════════════════════════════

// Verifier checks every roster username against its platform. The HTTP
// client must be configured with redirects disabled: a redirect answer is
// the signal for a missing profile on half the platforms.
type Verifier struct {
	repo    student.RosterRepository
	http    *httpapi.Client
	config  Config
	retrier *retry.Retrier
	logger  *slog.Logger
}

// New creates a verifier.
func New(repo student.RosterRepository, http *httpapi.Client, cfg Config) *Verifier {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Verifier{
		repo:    repo,
		http:    http,
		config:  cfg,
		retrier: retry.VerifierRetrier(),
		logger:  cfg.Logger,
	}
}

// Run verifies every platform's usernames and updates the store's
// existence flags. A check that keeps failing after its retry leaves the
// stored flag untouched and is logged.
func (v *Verifier) Run(ctx context.Context) error {
	entries, err := v.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("verify: list roster: %w", err)
	}

	for _, p := range student.AllPlatforms() {
		if err := v.runPlatform(ctx, p, entries); err != nil {
			return err
		}
	}
	return nil
}

func (v *Verifier) runPlatform(ctx context.Context, p student.Platform, entries []*student.RosterEntry) error {
	audit, err := newAuditFile(v.config.LogDir, p)
	if err != nil {
		return err
	}
	defer audit.Close()

	checked, missing := 0, 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		handle, ok := entry.HandleFor(p)
		if !ok {
			continue
		}

		exists, err := v.checkWithRetry(ctx, p, handle)
		if err != nil {
			v.logger.Error("verification failed, keeping stored flag",
				"platform", p.String(),
				"handle", entry.Handle.String(),
				"platform_handle", handle,
				"error", err,
			)
			continue
		}

		if err := v.repo.SetExists(ctx, entry.Handle, p, exists); err != nil {
			return fmt.Errorf("verify: update %s/%s: %w", entry.Handle, p, err)
		}
		if err := audit.write(entry.Handle, handle, exists); err != nil {
			return err
		}

		checked++
		if !exists {
			missing++
			v.logger.Warn("profile not found",
				"platform", p.String(),
				"handle", entry.Handle.String(),
				"platform_handle", handle,
			)
		}
	}

	v.logger.Info("platform verification completed",
		"platform", p.String(),
		"checked", checked,
		"missing", missing,
	)
	return nil
}

func (v *Verifier) checkWithRetry(ctx context.Context, p student.Platform, handle string) (bool, error) {
	var exists bool
	err := v.retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		exists, err = v.check(ctx, p, handle)
		if err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	return exists, err
}

func (v *Verifier) check(ctx context.Context, p student.Platform, handle string) (bool, error) {
	switch p {
	case student.PlatformCodeforces:
		return v.checkByRedirect(ctx, v.config.CodeforcesBaseURL, handle)
	case student.PlatformCodeChef:
		return v.checkByRedirect(ctx, v.config.CodeChefBaseURL, handle)
	case student.PlatformGeeksforGeeks:
		return v.checkByRedirect(ctx, v.config.GeeksforGeeksBaseURL, handle)
	case student.PlatformLeetCode:
		return v.checkLeetCode(ctx, handle)
	case student.PlatformHackerRank:
		return v.checkHackerRank(ctx, handle)
	default:
		return false, fmt.Errorf("verify: no check for platform %q", p)
	}
}

// checkByRedirect probes base/handle directly. These sites bounce a dead
// username back to their homepage, so any redirect means missing.
func (v *Verifier) checkByRedirect(ctx context.Context, base, handle string) (bool, error) {
	resp, err := v.http.Get(ctx, base+"/"+url.PathEscape(handle))
	if err != nil {
		return false, err
	}

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return false, nil
	case resp.StatusCode == 404:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, &httpapi.StatusError{Code: resp.StatusCode, URL: base, Body: resp.Body}
	}
}

// checkLeetCode asks the GraphQL API for the user; an unknown username
// comes back as a 200 carrying an errors array.
func (v *Verifier) checkLeetCode(ctx context.Context, handle string) (bool, error) {
	query := fmt.Sprintf(`query{matchedUser(username: %q){username}}`, handle)
	endpoint := v.config.LeetCodeBaseURL + "/graphql?query=" + url.QueryEscape(query)

	resp, err := v.http.Get(ctx, endpoint)
	if err != nil {
		return false, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, &httpapi.StatusError{Code: resp.StatusCode, URL: endpoint, Body: resp.Body}
	}

	return !bytes.Contains(resp.Body, []byte(`"errors"`)), nil
}

// checkHackerRank fetches the profile page. A missing profile is served as
// the site's generic landing page with a 200, so the title is the signal.
func (v *Verifier) checkHackerRank(ctx context.Context, handle string) (bool, error) {
	resp, err := v.http.Get(ctx, v.config.HackerRankBaseURL+"/"+url.PathEscape(handle))
	if err != nil {
		return false, err
	}

	switch {
	case resp.StatusCode == 404:
		return false, nil
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return !bytes.Contains(resp.Body, []byte(hackerRankLandingTitle)), nil
	default:
		return false, &httpapi.StatusError{Code: resp.StatusCode, URL: v.config.HackerRankBaseURL, Body: resp.Body}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT FILES
// ══════════════════════════════════════════════════════════════════════════════

// auditFile records one verdict line per checked username:
//
//	student_handle,platform_handle,true|false
type auditFile struct {
	f *os.File
}

func newAuditFile(dir string, p student.Platform) (*auditFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("verify: create log dir: %w", err)
	}

	path := filepath.Join(dir, p.String()+"_handles.txt")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("verify: open %s: %w", path, err)
	}
	return &auditFile{f: f}, nil
}

func (a *auditFile) write(handle student.Handle, platformHandle string, exists bool) error {
	_, err := fmt.Fprintf(a.f, "%s,%s,%t\n", handle, platformHandle, exists)
	if err != nil {
		return fmt.Errorf("verify: write audit: %w", err)
	}
	return a.f.Sync()
}

func (a *auditFile) Close() error {
	return a.f.Close()
}
