package opener

import (
	"testing"
)

func TestCheckURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "https",
			url:     "https://github.com",
			wantErr: false,
		},
		{
			name:    "http with query",
			url:     "http://example.com/a?b=c&d=e",
			wantErr: false,
		},
		{
			name:    "ftp refused",
			url:     "ftp://mirror.example",
			wantErr: true,
		},
		{
			name:    "javascript refused",
			url:     "javascript:alert(1)",
			wantErr: true,
		},
		{
			name:    "missing scheme",
			url:     "example.com",
			wantErr: true,
		},
		{
			name:    "unparseable",
			url:     "http://[::1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestLauncher(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantErr  bool
	}{
		{goos: "linux", wantName: "xdg-open"},
		{goos: "darwin", wantName: "open"},
		{goos: "windows", wantName: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, _, err := launcher(tt.goos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("launcher(%q) error = %v, wantErr %v", tt.goos, err, tt.wantErr)
			}
			if name != tt.wantName {
				t.Errorf("launcher(%q) = %q, want %q", tt.goos, name, tt.wantName)
			}
		})
	}
}
