package uicommand

import "testing"

func TestParseKnownCommandsCaseInsensitive(t *testing.T) {
	cases := map[string]Command{
		"StartGame": StartGame,
		"startgame": StartGame,
		"STOPGAME":  StopGame,
		"ResetGame": ResetGame,
		"endgame":   EndGame,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseTrailingArgumentsIgnored(t *testing.T) {
	got, err := Parse("StartGame now please")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != StartGame {
		t.Errorf("Parse(with trailing args) = %v, want StartGame", got)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	if _, err := Parse("DestroyUniverse"); err == nil {
		t.Error("Parse(unknown command) = nil error, want an error")
	}
}

func TestParseEmptyLine(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Error("Parse(\"\") = nil error, want an error")
	}
	if _, err := Parse("   "); err == nil {
		t.Error("Parse(whitespace) = nil error, want an error")
	}
}

func TestParseUnterminatedQuoteIsAnError(t *testing.T) {
	if _, err := Parse(`StartGame "unterminated`); err == nil {
		t.Error("Parse(unterminated quote) = nil error, want a shlex tokenization error")
	}
}
