package ui

// Accessors for the active theme's escape sequences. Each returns "" when
// colors are disabled.

func ColorReset() string   { return GetCurrentTheme().Reset }
func ColorBold() string    { return GetCurrentTheme().Bold }
func ColorRed() string     { return GetCurrentTheme().Error }
func ColorGreen() string   { return GetCurrentTheme().Success }
func ColorYellow() string  { return GetCurrentTheme().Warning }
func ColorBlue() string    { return GetCurrentTheme().Primary }
func ColorMagenta() string { return GetCurrentTheme().Info }
func ColorCyan() string    { return GetCurrentTheme().Primary }
func ColorGrey() string    { return GetCurrentTheme().Secondary }
