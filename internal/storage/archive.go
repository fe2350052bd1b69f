// Package storage archives ended interviews as markdown files with YAML
// frontmatter.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kfreiman/careercoach/internal/interview"
	"github.com/kfreiman/careercoach/internal/redaction"
)

// URIScheme prefixes archived transcript URIs
const URIScheme = "interview://"

const transcriptDir = "interviews"

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// StorageError represents a storage-related failure
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("storage error during %s", e.Operation)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned for unknown transcript ids
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transcript not found: %s", e.ID)
}

// ArchiveConfig holds configuration for the Archive
type ArchiveConfig struct {
	BasePath   string
	DefaultTTL time.Duration
	Logger     *slog.Logger        // Optional: defaults to a discarding logger
	FileSystem FileSystem          // Optional: defaults to the OS filesystem
	Redactor   *redaction.Redactor // Optional: defaults to redaction.DefaultRedactor
	Retry      RetryConfig         // Optional: defaults to DefaultRetryConfig
	Now        func() time.Time    // Optional
}

// Archive stores interview transcripts
type Archive struct {
	basePath   string
	defaultTTL time.Duration
	logger     *slog.Logger
	fs         FileSystem
	redactor   *redaction.Redactor
	retry      RetryConfig
	now        func() time.Time
}

// Summary describes an archived transcript without its body
type Summary struct {
	Frontmatter
	URI string `json:"uri"`
}

// NewArchive creates the transcript directory and returns an Archive
func NewArchive(config ArchiveConfig) (*Archive, error) {
	ctx := context.Background()

	if config.BasePath == "" {
		config.BasePath = "./storage"
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = 30 * 24 * time.Hour
	}
	if config.FileSystem == nil {
		config.FileSystem = NewOSFileSystem()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Redactor == nil {
		config.Redactor = redaction.DefaultRedactor
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = DefaultRetryConfig
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	dir := filepath.Join(config.BasePath, transcriptDir)
	if err := config.FileSystem.MkdirAll(dir, 0o755); err != nil {
		config.Logger.ErrorContext(ctx, "failed to create archive directory",
			"error", err,
			"path", dir,
		)
		return nil, &StorageError{Operation: "init - create directory", Path: dir, Err: err}
	}

	config.Logger.InfoContext(ctx, "transcript archive initialized",
		"base_path", config.BasePath,
		"default_ttl", config.DefaultTTL,
	)

	return &Archive{
		basePath:   config.BasePath,
		defaultTTL: config.DefaultTTL,
		logger:     config.Logger,
		fs:         config.FileSystem,
		redactor:   config.Redactor,
		retry:      config.Retry,
		now:        config.Now,
	}, nil
}

func (a *Archive) dir() string {
	return filepath.Join(a.basePath, transcriptDir)
}

func (a *Archive) path(id string) string {
	return filepath.Join(a.dir(), id+".md")
}

// URI returns the resource URI of a transcript
func URI(id string) string {
	return URIScheme + id
}

// ParseURI extracts the transcript id from an interview:// URI
func ParseURI(uri string) (string, error) {
	id, ok := strings.CutPrefix(uri, URIScheme)
	if !ok || !validID.MatchString(id) {
		return "", &StorageError{Operation: "parse URI", Err: fmt.Errorf("invalid transcript URI: %s", uri)}
	}
	return id, nil
}

// Archive implements interview.Archiver
func (a *Archive) Archive(ctx context.Context, t interview.Transcript) error {
	_, err := a.Save(ctx, t)
	return err
}

// Save redacts and writes a transcript, returning its URI. Writes go to a
// temporary file that is renamed into place.
func (a *Archive) Save(ctx context.Context, t interview.Transcript) (string, error) {
	if !validID.MatchString(t.SessionID) {
		return "", &StorageError{Operation: "save transcript", Err: fmt.Errorf("invalid session id %q", t.SessionID)}
	}

	redacted := a.redact(t)
	fm := Frontmatter{
		ID:            t.SessionID,
		JobRole:       t.JobRole,
		Stage:         t.Stage,
		QuestionCount: t.QuestionCount,
		Outcome:       t.Outcome,
		StartedAt:     t.StartedAt.UTC(),
		EndedAt:       t.EndedAt.UTC(),
		ArchivedAt:    a.now().UTC(),
		Redacted:      true,
	}

	content, err := renderTranscript(fm, redacted)
	if err != nil {
		return "", &StorageError{Operation: "render transcript", Err: err}
	}

	path := a.path(t.SessionID)
	tmp := path + ".tmp"
	err = retry(ctx, a.retry, func(attempt int) error {
		if err := a.fs.WriteFile(tmp, content, 0o644); err != nil {
			a.logger.WarnContext(ctx, "transcript write failed",
				"error", err,
				"path", tmp,
				"attempt", attempt,
			)
			return err
		}
		return a.fs.Rename(tmp, path)
	})
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to save transcript",
			"error", err,
			"session_id", t.SessionID,
			"path", path,
			"operation", "save",
		)
		_ = a.fs.Remove(tmp)
		return "", &StorageError{Operation: "save transcript", Path: path, Err: err}
	}

	a.logger.InfoContext(ctx, "transcript archived",
		"session_id", t.SessionID,
		"outcome", t.Outcome,
		"path", path,
	)
	return URI(t.SessionID), nil
}

func (a *Archive) redact(t interview.Transcript) interview.Transcript {
	out := t
	out.ResumeText = a.redactor.RedactString(t.ResumeText)
	out.History = make([]interview.Exchange, len(t.History))
	for i, ex := range t.History {
		out.History[i] = interview.Exchange{
			Question: ex.Question,
			Answer:   a.redactor.RedactString(ex.Answer),
		}
	}
	return out
}

// Read loads an archived transcript
func (a *Archive) Read(ctx context.Context, id string) (Record, error) {
	if !validID.MatchString(id) {
		return Record{}, &NotFoundError{ID: id}
	}

	path := a.path(id)
	data, err := a.fs.ReadFile(path)
	if err != nil {
		if _, statErr := a.fs.Stat(path); statErr != nil {
			return Record{}, &NotFoundError{ID: id}
		}
		a.logger.ErrorContext(ctx, "failed to read transcript",
			"error", err,
			"path", path,
			"operation", "read",
		)
		return Record{}, &StorageError{Operation: "read transcript", Path: path, Err: err}
	}

	rec, err := parseRecord(data)
	if err != nil {
		return Record{}, &StorageError{Operation: "parse transcript", Path: path, Err: err}
	}

	a.logger.DebugContext(ctx, "transcript read", "session_id", id, "path", path)
	return rec, nil
}

// Exists reports whether a transcript is archived
func (a *Archive) Exists(id string) bool {
	if !validID.MatchString(id) {
		return false
	}
	_, err := a.fs.Stat(a.path(id))
	return err == nil
}

// List returns the frontmatter of every archived transcript, newest first.
// Unreadable files are skipped.
func (a *Archive) List(ctx context.Context) ([]Summary, error) {
	entries, err := a.fs.ReadDir(a.dir())
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to read directory for listing",
			"error", err,
			"dir", a.dir(),
		)
		return nil, &StorageError{Operation: "list transcripts", Path: a.dir(), Err: err}
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		path := filepath.Join(a.dir(), entry.Name())
		data, err := a.fs.ReadFile(path)
		if err != nil {
			a.logger.WarnContext(ctx, "skipping unreadable transcript", "error", err, "path", path)
			continue
		}
		rec, err := parseRecord(data)
		if err != nil {
			a.logger.WarnContext(ctx, "skipping malformed transcript", "error", err, "path", path)
			continue
		}
		summaries = append(summaries, Summary{Frontmatter: rec.Frontmatter, URI: URI(rec.ID)})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ArchivedAt.After(summaries[j].ArchivedAt)
	})

	a.logger.DebugContext(ctx, "listed transcripts", "count", len(summaries))
	return summaries, nil
}

// Cleanup removes transcripts older than ttl, or the default TTL when ttl is 0
func (a *Archive) Cleanup(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl == 0 {
		ttl = a.defaultTTL
	}
	cutoff := a.now().Add(-ttl)

	entries, err := a.fs.ReadDir(a.dir())
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to read directory for cleanup",
			"error", err,
			"dir", a.dir(),
		)
		return 0, &StorageError{Operation: "cleanup", Path: a.dir(), Err: err}
	}

	var removed int64
	for _, entry := range entries {
		if entry.IsDir() || !entry.ModTime().Before(cutoff) {
			continue
		}
		if err := a.fs.Remove(filepath.Join(a.dir(), entry.Name())); err == nil {
			removed++
		}
	}

	a.logger.InfoContext(ctx, "archive cleanup completed",
		"removed", removed,
		"ttl", ttl,
	)
	return removed, nil
}

// IsAccessible reports whether the archive directory exists
func (a *Archive) IsAccessible() bool {
	info, err := a.fs.Stat(a.dir())
	return err == nil && info.IsDir()
}
