package command

import (
	"reflect"
	"testing"
)

func TestNewTemplate_Valid(t *testing.T) {
	tmpl, err := NewTemplate([]string{"./check.sh", "--rev=$X"}, "$X")
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	if tmpl.Token() != "$X" {
		t.Errorf("Token = %q, want $X", tmpl.Token())
	}
	if tmpl.String() != "./check.sh --rev=$X" {
		t.Errorf("String = %q", tmpl.String())
	}
}

func TestNewTemplate_Rejections(t *testing.T) {
	testCases := []struct {
		name  string
		args  []string
		token string
	}{
		{"empty_command", nil, "$X"},
		{"empty_token", []string{"./check.sh", "$X"}, ""},
		{"token_missing", []string{"./check.sh", "--rev=5"}, "$X"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTemplate(tc.args, tc.token); err == nil {
				t.Errorf("NewTemplate(%v, %q) should fail", tc.args, tc.token)
			}
		})
	}
}

func TestTemplate_Render(t *testing.T) {
	tmpl, err := NewTemplate([]string{"sh", "-c", "test $X -lt 70", "$X-$X"}, "$X")
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}

	got := tmpl.Render(42)
	want := []string{"sh", "-c", "test 42 -lt 70", "42-42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render(42) = %v, want %v", got, want)
	}

	// Negative indices render with the sign
	got = tmpl.Render(-7)
	if got[2] != "test -7 -lt 70" {
		t.Errorf("Render(-7)[2] = %q", got[2])
	}
}

func TestTemplate_RenderDoesNotMutate(t *testing.T) {
	args := []string{"probe", "$X"}
	tmpl, err := NewTemplate(args, "$X")
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}

	tmpl.Render(1)
	tmpl.Render(2)

	if args[1] != "$X" {
		t.Errorf("caller args mutated: %v", args)
	}
	if got := tmpl.Render(3); got[1] != "3" {
		t.Errorf("Render(3) = %v, template state leaked between renders", got)
	}
}

func TestTemplate_CustomToken(t *testing.T) {
	tmpl, err := NewTemplate([]string{"probe", "--index", "INDEX"}, "INDEX")
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}

	got := tmpl.Render(9)
	if got[2] != "9" {
		t.Errorf("Render(9)[2] = %q, want 9", got[2])
	}
}
