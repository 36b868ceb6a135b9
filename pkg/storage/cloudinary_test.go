package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		folder string
		want   string
	}{
		{
			name:   "typical delivery url",
			url:    "https://res.cloudinary.com/demo/image/upload/v123/guest-documents/abc123.jpg",
			folder: "guest-documents",
			want:   "guest-documents/abc123",
		},
		{
			name:   "pdf keeps basename without extension",
			url:    "https://res.cloudinary.com/demo/raw/upload/guest-documents/policy.pdf",
			folder: "guest-documents",
			want:   "guest-documents/policy",
		},
		{
			name:   "no folder configured",
			url:    "https://res.cloudinary.com/demo/image/upload/abc123.png",
			folder: "",
			want:   "abc123",
		},
		{
			name:   "empty url",
			url:    "",
			folder: "guest-documents",
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PublicIDFromURL(tc.url, tc.folder))
		})
	}
}
