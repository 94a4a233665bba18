package utils

import (
	"strings"
	"testing"
)

func TestCountTokens(t *testing.T) {
	counter, err := NewTokenCounter()
	if err != nil {
		t.Fatalf("NewTokenCounter failed: %v", err)
	}

	if got := counter.CountTokens(""); got != 0 {
		t.Errorf("expected 0 tokens for empty string, got %d", got)
	}

	count := counter.CountTokens("The quick brown fox jumps over the lazy dog")
	if count < 5 || count > 15 {
		t.Errorf("unexpected token count for short sentence: %d", count)
	}
}

func TestValidateTokenLimit(t *testing.T) {
	counter, err := NewTokenCounter()
	if err != nil {
		t.Fatalf("NewTokenCounter failed: %v", err)
	}

	if !counter.ValidateTokenLimit("hello", 100) {
		t.Error("short text should fit within limit")
	}

	long := strings.Repeat("authorization token expired ", 200)
	if counter.ValidateTokenLimit(long, 10) {
		t.Error("long text should exceed limit")
	}
}

func TestCountTokensSimple(t *testing.T) {
	if got := CountTokensSimple("hello world"); got <= 0 {
		t.Errorf("expected positive token count, got %d", got)
	}
}
