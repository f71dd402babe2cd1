package model

import "encoding/base64"

// ImageAttachment is an image payload carried on a message. In memory it is
// raw bytes; encoding/json stores the Data field as base64, which is the
// self-contained durable form required for persistence. The raw bytes are the
// derived, displayable view and are regenerated on load.
type ImageAttachment struct {
	MIME string `json:"mime"`
	Name string `json:"name,omitempty"`
	Data []byte `json:"data"`
}

// Base64 returns the transport form of the payload: standard base64 with no
// data-URL header prefix, as the endpoint expects.
func (a *ImageAttachment) Base64() string {
	if a == nil || len(a.Data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(a.Data)
}

// ImageFromBase64 rebuilds the in-memory form from the durable encoding.
func ImageFromBase64(mime, name, encoded string) (*ImageAttachment, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return &ImageAttachment{MIME: mime, Name: name, Data: data}, nil
}
