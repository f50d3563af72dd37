package hardware

// RadioConfig represents radio configuration
type RadioConfig struct {
	Model    string // Hamlib model name or number
	Device   string // Serial device path (e.g., /dev/ttyUSB0)
	BaudRate int    // Serial baud rate
	Enabled  bool   // Whether radio control is enabled
}

// RadioInterface defines radio control operations
type RadioInterface interface {
	Initialize() error
	Close() error

	// Frequency control
	SetFrequency(freq int64) error
	GetFrequency() (int64, error)

	// Mode control
	SetMode(mode string, bandwidth int) error
	GetMode() (string, int, error)

	// PTT control
	SetPTT(state bool) error
	GetPTT() (bool, error)

	// Radio information
	GetRadioInfo() (RadioInfo, error)
	IsConnected() bool

	// Power and status
	GetPowerLevel() (float32, error)
	GetSWRLevel() (float32, error)
	GetSignalLevel() (int, error)
}

// RadioInfo represents radio information
type RadioInfo struct {
	Model       string
	Manufacturer string
	Version     string
	Capabilities []string
}

// RadioMode constants for common amateur radio modes
const (
	ModeUSB  = "USB"
	ModeLSB  = "LSB"
	ModeCW   = "CW"
	ModeRTTY = "RTTY"
	ModePSK  = "PSK"
	ModeFT8  = "FT8" // For FT8 and FT4 digital modes
	ModeFM   = "FM"
	ModeAM   = "AM"
)

// Common amateur radio FT8/FT4 dial frequencies (Hz), per the band plan
// published by the WSJT-X project.
const (
	Band80m_FT8  = 3573000
	Band40m_FT8  = 7074000
	Band20m_FT8  = 14074000
	Band17m_FT8  = 18100000
	Band15m_FT8  = 21074000
	Band12m_FT8  = 24915000
	Band10m_FT8  = 28074000
	Band6m_FT8   = 50313000
	Band2m_FT8   = 144174000
)

// FT8Bandwidth is the occupied bandwidth of an FT8 signal in Hz.
const FT8Bandwidth = 50