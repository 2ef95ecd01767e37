package adb

import (
	"errors"
	"runtime"
	"testing"
)

func TestSystemErrorMessagePrefersStdout(t *testing.T) {
	// adb is known to report some errors on stdout, so stdout wins when
	// non-empty, regardless of stderr.
	cases := []struct {
		stdout, stderr, want string
	}{
		{"error: device offline\n", "", "error: device offline"},
		{"error: device offline\n", "adb: real stderr", "error: device offline"},
		{"", "adb: no devices/emulators found\n", "adb: no devices/emulators found"},
		{"   \n", "stderr text", "stderr text"},
	}
	for _, c := range cases {
		got := systemErrorMessage([]byte(c.stdout), []byte(c.stderr))
		if got != c.want {
			t.Errorf("systemErrorMessage(%q, %q) = %q, want %q", c.stdout, c.stderr, got, c.want)
		}
	}
}

func TestRunSystemBinaryMissing(t *testing.T) {
	_, err := runSystem("uad-definitely-not-a-binary")
	if !errors.Is(err, ErrConnection) {
		t.Errorf("err = %v, want ErrConnection", err)
	}
}

func TestRunSystemNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	_, err := runSystem("sh", "-c", "echo oops on stdout; exit 1")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("err = %v, want CommandError", err)
	}
	if cmdErr.Output != "oops on stdout" {
		t.Errorf("output = %q, want stdout text", cmdErr.Output)
	}

	_, err = runSystem("sh", "-c", "echo oops on stderr 1>&2; exit 1")
	if !errors.As(err, &cmdErr) {
		t.Fatalf("err = %v, want CommandError", err)
	}
	if cmdErr.Output != "oops on stderr" {
		t.Errorf("output = %q, want stderr text", cmdErr.Output)
	}
}

func TestRunSystemSuccessTrims(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	out, err := runSystem("sh", "-c", "printf 'value\\n\\n'")
	if err != nil {
		t.Fatal(err)
	}
	if out != "value" {
		t.Errorf("out = %q, want trailing whitespace trimmed", out)
	}
}
