package content

import (
	"encoding/json"
	"fmt"

	"github.com/stallcraft/stallcraft/internal/docstore"
)

// decodeDocument maps a stored document onto a typed record. The document
// body carries the domain fields; id and timestamps come from the envelope.
func decodeDocument[T any](doc docstore.Document) (T, error) {
	var out T
	merged := make(map[string]any, len(doc.Data)+3)
	for k, v := range doc.Data {
		merged[k] = v
	}
	merged["id"] = doc.ID
	merged["createdOn"] = doc.CreatedOn
	merged["updatedOn"] = doc.UpdatedOn

	raw, err := json.Marshal(merged)
	if err != nil {
		return out, fmt.Errorf("encode document fields: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode document into record: %w", err)
	}
	return out, nil
}
