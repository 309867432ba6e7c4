package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mgiatti/fast-api-gemini-tts/model"
)

// ErrNotFound is returned when a clip id or hash has no row.
var ErrNotFound = fmt.Errorf("clip not found")

// OpenDB opens the clip index database and applies the schema.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open clip index: %w", err)
	}

	_, err = db.Exec(`
	PRAGMA busy_timeout  = 10000;
	PRAGMA journal_mode  = WAL;
	PRAGMA synchronous   = NORMAL;
	PRAGMA foreign_keys  = ON;
	PRAGMA temp_store    = MEMORY;
	PRAGMA cache_size    = -16000;

	create table if not exists clips (
		id text primary key,
		filename text not null,
		path text not null,
		text_input text not null,
		voice text not null default '',
		model text not null default '',
		request_hash text not null,
		content_hash text not null,
		size integer not null,
		duration_ms integer not null,
		sample_rate integer not null,
		created_at timestamp not null
	);

	create index if not exists clips_request_hash_idx on clips (request_hash);
	create index if not exists clips_created_at_idx on clips (created_at);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init clip index schema: %w", err)
	}

	return db, nil
}

// ClipStore persists clip metadata in SQLite.
type ClipStore struct {
	db *sql.DB
}

func NewClipStore(db *sql.DB) *ClipStore {
	return &ClipStore{db: db}
}

const clipColumns = `id, filename, path, text_input, voice, model,
	request_hash, content_hash, size, duration_ms, sample_rate, created_at`

func (s *ClipStore) Insert(ctx context.Context, clip *model.Clip) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("inserting clip: begin trx: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		insert into clips (`+clipColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		clip.ID,
		clip.Filename,
		clip.Path,
		clip.Text,
		clip.Voice,
		clip.Model,
		clip.RequestHash,
		clip.ContentHash,
		clip.Size,
		clip.DurationMS,
		clip.SampleRate,
		clip.CreatedAt,
	)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback insert clip: %w", rbErr)
		}
		return fmt.Errorf("persisting clip into sqlite: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("inserting clip: commiting: %w", err)
	}
	return nil
}

func (s *ClipStore) Get(ctx context.Context, id string) (*model.Clip, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+clipColumns+` from clips where id = $1`, id)
	return scanClip(row)
}

// FindByRequestHash returns the newest clip synthesized from an
// identical request, for cache reuse.
func (s *ClipStore) FindByRequestHash(ctx context.Context, hash string) (*model.Clip, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+clipColumns+` from clips
		where request_hash = $1
		order by created_at desc
		limit 1`, hash)
	return scanClip(row)
}

func (s *ClipStore) List(ctx context.Context, limit, offset int) ([]model.Clip, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+clipColumns+` from clips
		order by created_at desc
		limit $1 offset $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing clips: %w", err)
	}
	defer rows.Close()

	clips := []model.Clip{}
	for rows.Next() {
		var c model.Clip
		if err := rows.Scan(
			&c.ID, &c.Filename, &c.Path, &c.Text, &c.Voice, &c.Model,
			&c.RequestHash, &c.ContentHash, &c.Size, &c.DurationMS,
			&c.SampleRate, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning clip row: %w", err)
		}
		clips = append(clips, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clip rows: %w", err)
	}
	return clips, nil
}

func (s *ClipStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `select count(*) from clips`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting clips: %w", err)
	}
	return n, nil
}

func (s *ClipStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from clips where id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting clip: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting clip: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanClip(row *sql.Row) (*model.Clip, error) {
	var c model.Clip
	err := row.Scan(
		&c.ID, &c.Filename, &c.Path, &c.Text, &c.Voice, &c.Model,
		&c.RequestHash, &c.ContentHash, &c.Size, &c.DurationMS,
		&c.SampleRate, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning clip: %w", err)
	}
	return &c, nil
}
