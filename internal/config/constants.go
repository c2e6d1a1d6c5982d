package config

const SourceFileExt = ".a68"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".a68", ".alg", ".a68g"}

// Options file consulted by the link step (work dir, cache location).
const OptionsFileName = "a68.yaml"

// BookingCapacity bounds the per-unit CSE booking table. Past this the
// table degrades to always-miss, never to an error.
const BookingCapacity = 256

// Standard-prelude procedure names recognized by the translation tables.
const (
	PrintProcName  = "print"
	SqrtProcName   = "sqrt"
	SinProcName    = "sin"
	CosProcName    = "cos"
	TanProcName    = "tan"
	ExpProcName    = "exp"
	LnProcName     = "ln"
	ArctanProcName = "arctan"
)

// Standard-prelude constant names.
const (
	PiConstName        = "pi"
	MaxIntConstName    = "maxint"
	MaxRealConstName   = "maxreal"
	SmallRealConstName = "smallreal"
)

// Emitted translation unit layout.
const (
	EmitPackageName = "units"
	EmitFileName    = "units.go"
)
