package services

import (
	"testing"

	"github.com/agoradev/agora-backend/internal/types"
)

func TestValidSealType(t *testing.T) {
	if !validSealType(types.SealTypeRecommended) {
		t.Fatalf("recommended should be valid")
	}
	if !validSealType(types.SealTypeAdviseAgainst) {
		t.Fatalf("advise_against should be valid")
	}
	for _, bad := range []string{"", "endorse", "RECOMMENDED"} {
		if validSealType(bad) {
			t.Fatalf("%q should not be a valid seal type", bad)
		}
	}
}
