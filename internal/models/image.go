package models

import "encoding/json"

// Image is the canonical image shape used everywhere in the client.
// The backend has historically returned images as a bare URL string, an
// object with a "url" field, or a list of either; normalization happens
// once, at JSON decode time, so downstream code only ever sees this form.
type Image struct {
	URL string `json:"url"`
}

// ImageList decodes every image shape the backend emits into []Image.
type ImageList []Image

// UnmarshalJSON accepts a string, an object, or an array of both.
func (l *ImageList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = normalizeImages(raw)
	return nil
}

func normalizeImages(raw any) ImageList {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return ImageList{{URL: v}}
	case map[string]any:
		if url, ok := v["url"].(string); ok && url != "" {
			return ImageList{{URL: url}}
		}
		return nil
	case []any:
		var out ImageList
		for _, item := range v {
			out = append(out, normalizeImages(item)...)
		}
		return out
	default:
		return nil
	}
}

// Primary returns the first image URL, or "" when the list is empty.
func (l ImageList) Primary() string {
	if len(l) == 0 {
		return ""
	}
	return l[0].URL
}
