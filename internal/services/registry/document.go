package registry

import (
	"encoding/json"
	"fmt"
)

// EncodeDocument renders ids as the JSON array stored by every backend.
func EncodeDocument(userIDs []int64) ([]byte, error) {
	if userIDs == nil {
		userIDs = []int64{}
	}
	data, err := json.Marshal(userIDs)
	if err != nil {
		return nil, fmt.Errorf("encode registry document: %w", err)
	}
	return data, nil
}

func DecodeDocument(data []byte) ([]int64, error) {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return ids, nil
}
