package logger

import "os"

// stdoutWriter forwards log lines to standard output. Close is a no-op so
// that closing the backend never closes the process's stdout.
type stdoutWriter struct{}

func (stdoutWriter) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdoutWriter) Close() error {
	return nil
}
