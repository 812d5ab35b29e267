package encodings

import "time"

// Metadata carries the bookkeeping fields stored alongside a user's
// embeddings. It is an explicit struct rather than a free-form map so the
// persisted schema stays bounded.
type Metadata struct {
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	EmbeddingCount int       `json:"embedding_count"`
	DisplayName    string    `json:"display_name,omitempty"`
}

// Record is the durable unit of enrollment: every embedding vector stored for
// one user, in enrollment order, plus its metadata. The store is the only
// owner of records; callers always receive copies.
type Record struct {
	Identity   string      `json:"user_id"`
	Embeddings [][]float32 `json:"encodings"`
	Meta       Metadata    `json:"metadata"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cp := &Record{
		Identity: r.Identity,
		Meta:     r.Meta,
	}
	if r.Embeddings != nil {
		cp.Embeddings = make([][]float32, len(r.Embeddings))
		for i, emb := range r.Embeddings {
			cp.Embeddings[i] = append([]float32(nil), emb...)
		}
	}
	return cp
}

// Summary is the list view of a record: metadata without the vectors.
type Summary struct {
	UserID         string    `json:"user_id"`
	EmbeddingCount int       `json:"embedding_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	DisplayName    string    `json:"display_name,omitempty"`
}
