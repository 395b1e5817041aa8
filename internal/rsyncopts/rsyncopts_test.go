package rsyncopts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	for _, tt := range []struct {
		raw     string
		wantErr bool
	}{
		{raw: "-rlpcgoD"},
		{raw: "--archive --no-motd"},
		{raw: "--devices --specials"},
		{raw: "--info=progress2"},
		{raw: "-a -e 'ssh -v'"},
		{raw: "-essh"},
		{raw: "-av", wantErr: true},
		{raw: "-rlq", wantErr: true},
		{raw: "--verbose", wantErr: true},
		{raw: "-a --quiet", wantErr: true},
		{raw: "'unterminated", wantErr: true},
	} {
		t.Run(tt.raw, func(t *testing.T) {
			err := Validate(tt.raw)
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Errorf("Validate(%q) = %v, want error: %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	got, err := Split(`-rlpcgoD --exclude='a b' -e "ssh -i key"`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"-rlpcgoD", "--exclude=a b", "-e", "ssh -i key"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split: unexpected diff (-want +got):\n%s", diff)
	}
}
