package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"backoffice/internal/domain/audit"
)

// CompressionAlgo specifies the compression applied to stored changes.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the change-set size above which entries are
// stored zstd-compressed.
const DefaultCompressThreshold = 1024

var _ audit.Journal = (*AuditJournal)(nil)

// AuditJournal stores audit entries in sys_audit. Large change sets go to
// changes_compressed instead of the jsonb column.
type AuditJournal struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditJournal creates a journal. A threshold <= 0 uses the default.
func NewAuditJournal(txManager *TxManager, threshold int) (*AuditJournal, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}

	return &AuditJournal{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: threshold,
	}, nil
}

// pack splits changes into the plain and compressed columns.
func (j *AuditJournal) pack(changes json.RawMessage) (plain json.RawMessage, compressed []byte, algo CompressionAlgo) {
	if len(changes) > j.compressThreshold {
		return nil, j.encoder.EncodeAll(changes, nil), CompressionZstd
	}
	return changes, nil, CompressionNone
}

// unpack restores the change set of a stored row.
func (j *AuditJournal) unpack(plain json.RawMessage, compressed []byte, algo CompressionAlgo) (json.RawMessage, error) {
	if algo != CompressionZstd || len(compressed) == 0 {
		return plain, nil
	}
	out, err := j.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress changes: %w", err)
	}
	return out, nil
}

// Record implements audit.Journal.
func (j *AuditJournal) Record(ctx context.Context, entry audit.Entry) error {
	plain, compressed, algo := j.pack(entry.Changes)

	_, err := j.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		entry.ID, entry.EntityType, entry.EntityID, string(entry.Action),
		nullableJSON(plain), compressed, string(algo), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// History implements audit.Journal. Entries are returned newest first.
func (j *AuditJournal) History(ctx context.Context, entityType, entityID string, limit int) ([]audit.Entry, error) {
	rows, err := j.txManager.GetQuerier(ctx).Query(ctx, `
		SELECT id, entity_type, entity_id, action,
			   changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY seq DESC
		LIMIT $3
	`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e          audit.Entry
			action     string
			plain      []byte
			compressed []byte
			algo       string
		)
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &action,
			&plain, &compressed, &algo, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		e.Action = audit.Action(action)
		if e.Changes, err = j.unpack(plain, compressed, CompressionAlgo(algo)); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
