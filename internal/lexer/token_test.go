package lexer

import (
	"testing"
)

func TestToken_String(t *testing.T) {
	tests := []struct {
		name     string
		token    Token
		expected string
	}{
		{
			name: "identifier token",
			token: Token{
				Type:     TokenIdentifier,
				Lexeme:   "foo",
				Position: Position{Filename: "A.jmm", Line: 1, Column: 1},
			},
			expected: "<IDENTIFIER>(foo) at A.jmm:1:1",
		},
		{
			name: "keyword token",
			token: Token{
				Type:     TokenWhile,
				Lexeme:   "while",
				Position: Position{Filename: "A.jmm", Line: 5, Column: 10},
			},
			expected: "\"while\"(while) at A.jmm:5:10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.token.String()
			if result != tt.expected {
				t.Errorf("Token.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestPosition_IsValid(t *testing.T) {
	if (Position{}).IsValid() {
		t.Error("zero Position should be invalid")
	}
	if !(Position{Line: 1, Column: 1}).IsValid() {
		t.Error("Position at 1:1 should be valid")
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		word string
		want TokenType
	}{
		{"class", TokenClass},
		{"extends", TokenExtends},
		{"length", TokenLength},
		{"String", TokenIdentifier},
		{"main", TokenIdentifier},
		{"Class", TokenIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := LookupKeyword(tt.word); got != tt.want {
				t.Errorf("LookupKeyword(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}
