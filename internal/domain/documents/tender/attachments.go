package tender

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Attachment is metadata of one uploaded file. Bytes live in the blob store;
// only the path and public URL are kept here.
type Attachment struct {
	FileName   string    `json:"fileName"`
	Path       string    `json:"path"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// AttachmentList stores attachments as a JSONB array.
type AttachmentList []Attachment

// Scan implements sql.Scanner for JSONB columns.
func (l *AttachmentList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for AttachmentList: %T", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	var items []Attachment
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("unmarshal attachments: %w", err)
	}
	*l = items
	return nil
}

// Value implements driver.Valuer for JSONB columns.
func (l AttachmentList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}
