package capability

// Names of the primitive capabilities recipes refer to
const (
	TimeGainControl   = "time-gain-control"
	AutoGainControl   = "auto-gain-control"
	WindowedSinc      = "windowed-sinc"
	MovingAverage     = "moving-average"
	RecursiveFilter   = "recursive-filter"
	WienerFilter      = "wiener-filter"
	Dewow             = "dewow"
	RemoveRinging     = "remove-ringing"
	RemoveHorizontal  = "remove-horizontal"
	MigrateFK         = "migrate-fk"
	LineProject       = "line-project-multisegment"
	MultiplyAmplitude = "multiply-amplitude"
	ReverseTraces     = "reverse-traces"
)

// Filter modes accepted by the frequency-selective capabilities
const (
	ModeLowpass  = "lowpass"
	ModeHighpass = "highpass"
)

// Moving-average window kinds
const (
	KindBoxcar   = "boxcar"
	KindBlackman = "blackman"
)

// Recursive filter prototypes
const (
	FilterButter = "butter"
	FilterCheby1 = "cheby1"
)
