package id

import (
	"strings"
	"testing"
)

func TestNewRef_PrefixAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		ref := NewRef(KindRawMaterial)
		if !strings.HasPrefix(ref, "RM-") {
			t.Fatalf("expected RM- prefix, got %s", ref)
		}
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = struct{}{}
	}
}

func TestRefKind(t *testing.T) {
	tests := []struct {
		ref  string
		want Kind
	}{
		{NewRef(KindTenderItem), KindTenderItem},
		{NewRef(KindLocalProduct), KindLocalProduct},
		{"garbage", ""},
		{"XX-0190", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := RefKind(tt.ref); got != tt.want {
			t.Errorf("RefKind(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestIsRef(t *testing.T) {
	ref := NewRef(KindCompany)
	if !IsRef(ref, KindCompany) {
		t.Errorf("expected %s to match kind CO", ref)
	}
	if IsRef(ref, KindEmployee) {
		t.Errorf("did not expect %s to match kind EM", ref)
	}
}
