// ABOUTME: Corpus read/write operations: pages, segments, and their vectors
// ABOUTME: Vectors are stored as little-endian float32 blobs
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

// ReplacePage upserts a page and replaces all of its segments. Re-ingestion is
// wholesale: the page's old segments and vectors die with it.
func (db *DB) ReplacePage(page models.Page, segments []models.Segment) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO pages (title, content) VALUES (?, ?)
		ON CONFLICT(title) DO UPDATE SET content = excluded.content
	`, page.Title, page.Content); err != nil {
		return fmt.Errorf("upserting page %q: %w", page.Title, err)
	}

	if _, err := tx.Exec(`DELETE FROM segments WHERE page_title = ?`, page.Title); err != nil {
		return fmt.Errorf("clearing segments for %q: %w", page.Title, err)
	}

	for _, seg := range segments {
		var blob []byte
		if seg.HasEmbedding() {
			blob = vectorToBlob(seg.Embedding)
		}
		if _, err := tx.Exec(`
			INSERT INTO segments (page_title, ordinal, content, token_count, embedding)
			VALUES (?, ?, ?, ?, ?)
		`, seg.PageTitle, seg.Ordinal, seg.Content, seg.TokenCount, blob); err != nil {
			return fmt.Errorf("inserting segment %q: %w", seg.DisplayKey(), err)
		}
	}

	return tx.Commit()
}

// SaveEmbeddings writes computed vectors back onto existing segments.
func (db *DB) SaveEmbeddings(segments []models.Segment) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, seg := range segments {
		if !seg.HasEmbedding() {
			continue
		}
		res, err := tx.Exec(`
			UPDATE segments SET embedding = ? WHERE page_title = ? AND ordinal = ?
		`, vectorToBlob(seg.Embedding), seg.PageTitle, seg.Ordinal)
		if err != nil {
			return fmt.Errorf("saving embedding for %q: %w", seg.DisplayKey(), err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("saving embedding for %q: segment not found", seg.DisplayKey())
		}
	}

	return tx.Commit()
}

// LoadSegments reads the whole corpus in insertion order, which is the natural
// tie-break order for ranking.
func (db *DB) LoadSegments() ([]models.Segment, error) {
	rows, err := db.conn.Query(`
		SELECT page_title, ordinal, content, token_count, embedding
		FROM segments
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("loading segments: %w", err)
	}
	defer rows.Close()

	var segments []models.Segment
	for rows.Next() {
		var (
			seg  models.Segment
			blob []byte
		)
		if err := rows.Scan(&seg.PageTitle, &seg.Ordinal, &seg.Content, &seg.TokenCount, &blob); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		if len(blob) > 0 {
			seg.Embedding = blobToVector(blob)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// LoadPage reads one page by title. Returns nil when the page does not exist.
func (db *DB) LoadPage(title string) (*models.Page, error) {
	var page models.Page
	err := db.conn.QueryRow(`SELECT title, content FROM pages WHERE title = ?`, title).
		Scan(&page.Title, &page.Content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading page %q: %w", title, err)
	}
	return &page, nil
}

// CountSegments returns the number of stored segments.
func (db *DB) CountSegments() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM segments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting segments: %w", err)
	}
	return n, nil
}

// vectorToBlob converts a float32 slice to a little-endian binary blob.
func vectorToBlob(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// blobToVector converts a binary blob back to a float32 slice.
func blobToVector(blob []byte) []float32 {
	count := len(blob) / 4
	vector := make([]float32, count)
	for i := 0; i < count; i++ {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}
