package main

import (
	"context"
	"testing"

	appconfig "github.com/Nishanth-S1142001/rebel-ai-sub003/internal/config"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/messaging"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/internal/notify"
	"github.com/Nishanth-S1142001/rebel-ai-sub003/pkg/logging"
)

func TestBuildEmailSenderDefaultsToStub(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{EmailProvider: "stub"}

	sender := buildEmailSender(context.Background(), cfg, logger)
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub email sender, got %T", sender)
	}
}

func TestBuildEmailSenderSendGrid(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		EmailProvider:     "sendgrid",
		SendGridAPIKey:    "SG.test-key",
		SendGridFromEmail: "noreply@example.com",
	}

	sender := buildEmailSender(context.Background(), cfg, logger)
	if _, ok := sender.(*notify.SendGridSender); !ok {
		t.Fatalf("expected sendgrid sender, got %T", sender)
	}
}

func TestBuildEmailSenderSendGridMissingKeyFallsBack(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{EmailProvider: "sendgrid"}

	sender := buildEmailSender(context.Background(), cfg, logger)
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected fallback to stub sender, got %T", sender)
	}
}

func TestBuildSMSSenderWithoutCredentials(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{}

	if sender := buildSMSSender(cfg, logger); sender != nil {
		t.Fatalf("expected nil SMS sender without credentials, got %T", sender)
	}
}

func TestBuildSMSSenderWithCredentials(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		TwilioAccountSID: "ACxxxxxxxx",
		TwilioAuthToken:  "token",
		TwilioFromNumber: "+15550001111",
	}

	sender := buildSMSSender(cfg, logger)
	if _, ok := sender.(*messaging.TwilioSender); !ok {
		t.Fatalf("expected twilio sender, got %T", sender)
	}
}
