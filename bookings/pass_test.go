package bookings

import (
	"strings"
	"testing"
	"time"
)

func TestPassPayloadRoundTrip(t *testing.T) {
	issued := time.Now().Unix()
	payload := SignPassPayload("b123", "s42", issued)

	if !strings.HasPrefix(payload, "b123|s42|") {
		t.Fatalf("payload = %q", payload)
	}

	id, ok := VerifyPassPayload(payload)
	if !ok {
		t.Fatal("valid payload rejected")
	}
	if id != "b123" {
		t.Errorf("booking id = %q", id)
	}
}

func TestPassPayloadTamperDetected(t *testing.T) {
	payload := SignPassPayload("b123", "s42", time.Now().Unix())

	tampered := strings.Replace(payload, "s42", "s43", 1)
	if _, ok := VerifyPassPayload(tampered); ok {
		t.Error("tampered slot id accepted")
	}

	tampered = strings.Replace(payload, "b123", "b124", 1)
	if _, ok := VerifyPassPayload(tampered); ok {
		t.Error("tampered booking id accepted")
	}

	if _, ok := VerifyPassPayload("b123|s42|0"); ok {
		t.Error("payload without signature accepted")
	}
	if _, ok := VerifyPassPayload(""); ok {
		t.Error("empty payload accepted")
	}
}
