package probing

import (
	"testing"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPort uint16
		wantErr  bool
	}{
		{
			name:     "http default port",
			url:      "http://distfiles.example/pub/",
			wantHost: "distfiles.example",
			wantPort: 80,
		},
		{
			name:     "ftp default port",
			url:      "ftp://ftp.example/pub/packages/",
			wantHost: "ftp.example",
			wantPort: 21,
		},
		{
			name:     "https default port",
			url:      "https://mirror.example/",
			wantHost: "mirror.example",
			wantPort: 443,
		},
		{
			name:     "explicit port wins",
			url:      "http://mirror.example:8080/pub/",
			wantHost: "mirror.example",
			wantPort: 8080,
		},
		{
			name:    "unknown scheme",
			url:     "gopher://old.example/",
			wantErr: true,
		},
		{
			name:    "missing host",
			url:     "http:///pub/",
			wantErr: true,
		},
		{
			name:    "port out of range",
			url:     "http://mirror.example:99999/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseTarget(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTarget(%q) expected error, got %+v", tt.url, target)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTarget(%q) unexpected error: %v", tt.url, err)
			}
			if target.URL != tt.url {
				t.Errorf("URL = %q, want %q", target.URL, tt.url)
			}
			if target.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", target.Host, tt.wantHost)
			}
			if target.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", target.Port, tt.wantPort)
			}
		})
	}
}

func TestTargetAddr(t *testing.T) {
	target, err := ParseTarget("https://mirror.example/pub/")
	if err != nil {
		t.Fatalf("ParseTarget: %v", err)
	}
	if got := target.Addr(); got != "mirror.example:443" {
		t.Errorf("Addr() = %q, want %q", got, "mirror.example:443")
	}
}
