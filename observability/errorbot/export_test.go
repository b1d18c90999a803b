package errorbot

// SetExit replaces the process exit function and returns a restore func.
func SetExit(f func(code int)) func() {
	prev := exit
	exit = f
	return func() { exit = prev }
}
