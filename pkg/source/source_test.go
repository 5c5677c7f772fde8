package source

import (
	"testing"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in       string
		want     Ref
		wantCode errs.Code
	}{
		{"acme/web#12", Ref{Kind: KindGitHub, Owner: "acme", Repo: "web", Number: 12}, ""},
		{"github:acme/web", Ref{Kind: KindGitHub, Owner: "acme", Repo: "web"}, ""},
		{"github:acme/web#3", Ref{Kind: KindGitHub, Owner: "acme", Repo: "web", Number: 3}, ""},
		{"epics/checkout.json", Ref{Kind: KindFile, Path: "epics/checkout.json"}, ""},
		{"epic.TOML", Ref{Kind: KindFile, Path: "epic.TOML"}, ""},
		{"snapshots/a#1.json", Ref{Kind: KindFile, Path: "snapshots/a#1.json"}, ""},
		{"", Ref{}, errs.ErrCodeInvalidInput},
		{"acme/web#x", Ref{}, errs.ErrCodeInvalidInput},
		{"acme/web#0", Ref{}, errs.ErrCodeInvalidInput},
		{"-acme/web#1", Ref{}, errs.ErrCodeInvalidRepo},
		{"/abs/epic.json", Ref{Kind: KindFile, Path: "/abs/epic.json"}, ""},
		{"epic\x01.json", Ref{}, errs.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if tt.wantCode != "" {
				if !errs.Is(err, tt.wantCode) {
					t.Fatalf("ParseRef(%q) error = %v, want code %s", tt.in, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRefString(t *testing.T) {
	tests := []struct {
		ref  Ref
		want string
	}{
		{Ref{Kind: KindGitHub, Owner: "acme", Repo: "web", Number: 12}, "acme/web#12"},
		{Ref{Kind: KindGitHub, Owner: "acme", Repo: "web"}, "acme/web"},
		{Ref{Kind: KindFile, Path: "epic.json"}, "epic.json"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
