package engine

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kb9vqf/ft8d/pkg/config"
	"github.com/kb9vqf/ft8d/pkg/dsp"
	"github.com/kb9vqf/ft8d/pkg/hardware"
	"github.com/kb9vqf/ft8d/pkg/protocol"
)

// CoreEngine is the daemon's main FT8/FT4 processing loop: it owns the
// codec, the hardware manager, the Unix socket control API, and the
// message history for the running session.
type CoreEngine struct {
	config     *config.Config
	socketPath string
	listener   net.Listener
	running    bool
	mutex      sync.RWMutex
	startTime  time.Time

	// DSP and hardware components
	dspEngine       *dsp.Codec
	codecMode       dsp.Mode
	hardwareManager *hardware.HardwareManager

	// Message storage
	messages []protocol.Message
	msgMutex sync.RWMutex

	// Radio state
	frequency int
	ptt       bool
	connected bool

	// Channels for message processing
	rxMessages chan protocol.Message
	txMessages chan protocol.Message
}

// modeFromConfig maps the config's "ft8"/"ft4" string to a dsp.Mode,
// defaulting to FT8 for anything else (config.Validate rejects any other
// value before an engine is ever constructed).
func modeFromConfig(s string) dsp.Mode {
	if strings.EqualFold(s, "ft4") {
		return dsp.ModeFT4
	}
	return dsp.ModeFT8
}

// NewCoreEngine creates a new core engine
func NewCoreEngine(cfg *config.Config, socketPath string) *CoreEngine {
	// Create hardware configuration from config
	hardwareConfig := hardware.HardwareConfig{
		EnableGPIO:     cfg.Hardware.EnableGPIO,
		PTTGPIOPin:     cfg.Hardware.PTTGPIOPin,
		StatusLEDPin:   cfg.Hardware.StatusLEDPin,
		EnableOLED:     cfg.Hardware.EnableOLED,
		OLEDI2CAddress: cfg.Hardware.OLEDI2CAddress,
		OLEDWidth:      cfg.Hardware.OLEDWidth,
		OLEDHeight:     cfg.Hardware.OLEDHeight,
		EnableAudio:    true, // Always enable audio for radio operations
		AudioInput:     cfg.Audio.InputDevice,
		AudioOutput:    cfg.Audio.OutputDevice,
		SampleRate:     cfg.Audio.SampleRate,
		BufferSize:     cfg.Audio.BufferSize,
		EnableRadio:    cfg.Radio.Device != "", // Enable radio if device is specified
		RadioModel:     cfg.Radio.Model,
		RadioDevice:    cfg.Radio.Device,
		RadioBaudRate:  cfg.Radio.BaudRate,
	}

	// Set defaults if not specified
	if hardwareConfig.SampleRate == 0 {
		hardwareConfig.SampleRate = 48000
	}
	if hardwareConfig.BufferSize == 0 {
		hardwareConfig.BufferSize = 1024
	}
	if hardwareConfig.OLEDWidth == 0 {
		hardwareConfig.OLEDWidth = 128
	}
	if hardwareConfig.OLEDHeight == 0 {
		hardwareConfig.OLEDHeight = 64
	}
	if hardwareConfig.RadioBaudRate == 0 {
		hardwareConfig.RadioBaudRate = 4800 // Default radio baud rate
	}

	mode := modeFromConfig(cfg.Codec.Mode)

	return &CoreEngine{
		config:          cfg,
		socketPath:      socketPath,
		startTime:       time.Now(),
		frequency:       hardware.Band20m_FT8, // Default dial frequency
		connected:       true,                 // Mock - assume connected
		rxMessages:      make(chan protocol.Message, 100),
		txMessages:      make(chan protocol.Message, 100),
		messages:        make([]protocol.Message, 0),
		dspEngine:       dsp.NewCodec(mode),
		codecMode:       mode,
		hardwareManager: hardware.NewHardwareManager(hardwareConfig),
	}
}

// Start starts the core engine and Unix socket server
func (e *CoreEngine) Start() error {
	e.mutex.Lock()
	e.running = true
	e.mutex.Unlock()

	// Configure and initialize the codec from the daemon config
	e.dspEngine.SetSampleRate(e.config.Audio.SampleRate)
	e.dspEngine.SetCarrierFrequency(e.config.Codec.FrequencyHz)
	e.dspEngine.SetMaxLDPCIters(e.config.Codec.MaxLDPCIters)
	e.dspEngine.SetMinSyncScore(e.config.Codec.MinSyncScore)

	if err := e.dspEngine.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize DSP engine: %w", err)
	}
	log.Printf("DSP engine initialized (%s, %d Hz sample rate)", e.codecMode, e.dspEngine.GetSampleRate())

	// Initialize hardware manager
	if err := e.hardwareManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize hardware manager: %w", err)
	}

	// Start audio input for decoding
	if err := e.hardwareManager.StartAudioInput(); err != nil {
		log.Printf("Warning: failed to start audio input: %v", err)
	}

	// Start audio output for transmission
	if err := e.hardwareManager.StartAudioOutput(); err != nil {
		log.Printf("Warning: failed to start audio output: %v", err)
	}

	// Remove existing socket file
	os.Remove(e.socketPath)

	// Create Unix domain socket
	listener, err := net.Listen("unix", e.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create Unix socket: %w", err)
	}
	e.listener = listener

	// Set socket permissions (readable/writable by owner and group)
	if err := os.Chmod(e.socketPath, 0660); err != nil {
		log.Printf("Warning: failed to set socket permissions: %v", err)
	}

	log.Printf("Core engine listening on %s", e.socketPath)

	// Start message processor
	go e.messageProcessor()

	// Start audio processor
	go e.audioProcessor()

	// Accept connections
	go e.acceptConnections()

	return nil
}

// Stop stops the core engine
func (e *CoreEngine) Stop() error {
	e.mutex.Lock()
	e.running = false
	e.mutex.Unlock()

	if e.listener != nil {
		e.listener.Close()
	}

	// Clean up hardware manager
	if e.hardwareManager != nil {
		e.hardwareManager.Close()
	}

	// Clean up DSP engine
	if e.dspEngine != nil {
		e.dspEngine.Close()
	}

	// Clean up socket file
	os.Remove(e.socketPath)

	return nil
}

// acceptConnections accepts and handles socket connections
func (e *CoreEngine) acceptConnections() {
	for e.isRunning() {
		conn, err := e.listener.Accept()
		if err != nil {
			if e.isRunning() {
				log.Printf("Socket accept error: %v", err)
			}
			continue
		}

		go e.handleConnection(conn)
	}
}

// handleConnection handles a single socket connection
func (e *CoreEngine) handleConnection(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		// Parse command
		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			response := protocol.NewErrorResponse(fmt.Sprintf("parse error: %v", err))
			conn.Write([]byte(response.String() + "\n"))
			continue
		}

		// Handle command
		response := e.handleCommand(cmd)
		conn.Write([]byte(response.String() + "\n"))

		// Close connection after QUIT command
		if cmd.Type == protocol.CmdQuit {
			break
		}
	}
}

// handleCommand processes a single command
func (e *CoreEngine) handleCommand(cmd *protocol.Command) *protocol.Response {
	switch cmd.Type {
	case protocol.CmdStatus:
		return e.handleStatus()

	case protocol.CmdMessages:
		return e.handleMessages(cmd)

	case protocol.CmdSend:
		return e.handleSend(cmd)

	case protocol.CmdFrequency:
		return e.handleFrequency(cmd)

	case protocol.CmdRadio:
		return e.handleRadio()

	case protocol.CmdAbort:
		return e.handleAbort()

	case protocol.CmdReload:
		return protocol.NewSuccessResponse(map[string]interface{}{
			"status": "reloaded",
		})

	case protocol.CmdPing:
		return protocol.NewSuccessResponse(map[string]interface{}{
			"pong": time.Now().Unix(),
		})

	case protocol.CmdQuit:
		return protocol.NewSuccessResponse(map[string]interface{}{
			"message": "goodbye",
		})

	default:
		return protocol.NewErrorResponse(fmt.Sprintf("unknown command: %s", cmd.Type))
	}
}

// handleStatus returns current daemon status
func (e *CoreEngine) handleStatus() *protocol.Response {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	status := protocol.Status{
		Callsign:  e.config.Station.Callsign,
		Grid:      e.config.Station.Grid,
		Frequency: e.frequency,
		Mode:      e.codecMode.String(),
		PTT:       e.ptt,
		Connected: e.connected,
		Uptime:    time.Since(e.startTime).String(),
		StartTime: e.startTime,
		Version:   "0.1.0-dev",
	}

	// Add hardware status if hardware manager is available
	data := map[string]interface{}{
		"status": status,
	}

	if e.hardwareManager != nil && e.hardwareManager.IsInitialized() {
		hardwareStatus := map[string]interface{}{
			"initialized": true,
			"ptt_active":  e.hardwareManager.GetPTT(),
			"config":      e.hardwareManager.GetConfig(),
		}

		// Add audio status if available
		if audio := e.hardwareManager.GetAudio(); audio != nil {
			hardwareStatus["audio"] = map[string]interface{}{
				"recording":   audio.IsRecording(),
				"playing":     audio.IsPlaying(),
				"sample_rate": audio.GetSampleRate(),
				"buffer_size": audio.GetBufferSize(),
			}
		}

		data["hardware"] = hardwareStatus
	}

	return protocol.NewSuccessResponse(data)
}

// handleMessages returns message history
func (e *CoreEngine) handleMessages(cmd *protocol.Command) *protocol.Response {
	e.msgMutex.RLock()
	defer e.msgMutex.RUnlock()

	messages := make([]protocol.Message, len(e.messages))
	copy(messages, e.messages)

	return protocol.NewSuccessResponse(map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

// handleSend queues a message for transmission
func (e *CoreEngine) handleSend(cmd *protocol.Command) *protocol.Response {
	to, _ := cmd.Args["to"].(string)
	message, _ := cmd.Args["message"].(string)

	if message == "" {
		return protocol.NewErrorResponse("message cannot be empty")
	}

	msg := protocol.Message{
		ID:        int(time.Now().Unix()),
		Timestamp: time.Now(),
		From:      e.config.Station.Callsign,
		To:        to,
		Message:   message,
		Mode:      e.codecMode.String(),
	}

	// Queue for transmission
	select {
	case e.txMessages <- msg:
		log.Printf("TX queued: %s -> %s: %s", msg.From, msg.To, msg.Message)
		return protocol.NewSuccessResponse(map[string]interface{}{
			"status":  "queued",
			"message": msg,
		})
	default:
		return protocol.NewErrorResponse("transmit queue full")
	}
}

// handleFrequency sets the radio frequency
func (e *CoreEngine) handleFrequency(cmd *protocol.Command) *protocol.Response {
	// TODO: Implement actual radio control
	freqStr, _ := cmd.Args["frequency"].(string)

	// For now, just acknowledge
	return protocol.NewSuccessResponse(map[string]interface{}{
		"status":    "ok",
		"frequency": freqStr,
	})
}

// handleAbort clears the transmit queue and drops PTT immediately.
func (e *CoreEngine) handleAbort() *protocol.Response {
drain:
	for {
		select {
		case <-e.txMessages:
		default:
			break drain
		}
	}

	if err := e.hardwareManager.SetPTT(false); err != nil {
		log.Printf("Warning: failed to clear PTT on abort: %v", err)
	}
	e.mutex.Lock()
	e.ptt = false
	e.mutex.Unlock()

	return protocol.NewSuccessResponse(map[string]interface{}{
		"status": "aborted",
	})
}

// handleRadio returns radio status
func (e *CoreEngine) handleRadio() *protocol.Response {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return protocol.NewSuccessResponse(map[string]interface{}{
		"frequency": e.frequency,
		"mode":      "USB",
		"ptt":       e.ptt,
		"connected": e.connected,
		"model":     e.config.Radio.Model,
		"device":    e.config.Radio.Device,
	})
}

// messageProcessor handles incoming and outgoing messages
func (e *CoreEngine) messageProcessor() {
	for e.isRunning() {
		select {
		case msg := <-e.rxMessages:
			log.Printf("RX: %s -> %s: %s (SNR: %.1fdB)", msg.From, msg.To, msg.Message, msg.SNR)

			// Store message
			e.msgMutex.Lock()
			e.messages = append(e.messages, msg)
			e.msgMutex.Unlock()

			// Update OLED display with received message
			e.updateOLEDDisplay(fmt.Sprintf("RX: %s", msg.Message))

		case msg := <-e.txMessages:
			log.Printf("TX: %s -> %s: %s", msg.From, msg.To, msg.Message)

			// Encode message using real DSP
			if err := e.transmitMessage(msg); err != nil {
				log.Printf("TX error: %v", err)
			}

		case <-time.After(1 * time.Second):
			// Periodic processing (keep-alive, etc.)
			continue
		}
	}
}

// isRunning checks if the engine is running
func (e *CoreEngine) isRunning() bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.running
}

// transmitMessage encodes and transmits a message using the DSP engine
func (e *CoreEngine) transmitMessage(msg protocol.Message) error {
	// Set PTT flag and hardware PTT during transmission
	e.mutex.Lock()
	e.ptt = true
	e.mutex.Unlock()

	// Activate hardware PTT
	if err := e.hardwareManager.SetPTT(true); err != nil {
		log.Printf("Warning: failed to set PTT: %v", err)
	}

	defer func() {
		// Deactivate hardware PTT
		if err := e.hardwareManager.SetPTT(false); err != nil {
			log.Printf("Warning: failed to clear PTT: %v", err)
		}

		e.mutex.Lock()
		e.ptt = false
		e.mutex.Unlock()
	}()

	// Encode to audio samples. Length and character-set constraints are
	// enforced by ft8.Parse/Pack, not by the engine.
	audioData, err := e.dspEngine.EncodeMessage(msg.Message, e.codecMode)
	if err != nil {
		return fmt.Errorf("DSP encoding failed: %w", err)
	}

	log.Printf("DSP: Encoded '%s' to %d audio samples", msg.Message, len(audioData))

	// Send audio data to hardware audio system for output
	if err := e.hardwareManager.PlayAudio(audioData); err != nil {
		return fmt.Errorf("audio output failed: %w", err)
	}

	// Wait for transmission to complete
	duration := e.dspEngine.EstimateAudioDuration(e.codecMode)
	time.Sleep(duration)

	log.Printf("DSP: Transmission complete")

	// Update OLED display with transmission status
	e.updateOLEDDisplay(fmt.Sprintf("TX: %s", msg.Message))

	return nil
}

// audioProcessor handles incoming audio data and decoding
func (e *CoreEngine) audioProcessor() {
	inputSamples := e.hardwareManager.GetAudioInputSamples()

	// If audio is not available, just exit
	if inputSamples == nil {
		log.Printf("Audio input not available, audio processor disabled")
		return
	}

	// Buffer for accumulating samples for decoding
	var audioBuffer []int16
	const bufferLimit = 15 * 48000 // 15 seconds at 48kHz max

	for e.isRunning() {
		select {
		case samples := <-inputSamples:
			// Accumulate audio samples
			audioBuffer = append(audioBuffer, samples...)

			// If buffer gets too large, trim it to prevent memory issues
			if len(audioBuffer) > bufferLimit {
				// Keep last 10 seconds worth
				keepSamples := 10 * 48000
				if len(audioBuffer) > keepSamples {
					audioBuffer = audioBuffer[len(audioBuffer)-keepSamples:]
				}
			}

			// Try to decode if we have enough samples (at least 3 seconds)
			minSamples := 3 * 48000
			if len(audioBuffer) >= minSamples {
				e.attemptDecode(audioBuffer)
			}

		case <-time.After(1 * time.Second):
			// Periodic cleanup - try to decode accumulated buffer
			if len(audioBuffer) > 0 {
				e.attemptDecode(audioBuffer)
				// Clear buffer after decode attempt
				audioBuffer = audioBuffer[:0]
			}
		}
	}
}

// attemptDecode tries to decode FT8/FT4 messages from an audio buffer
func (e *CoreEngine) attemptDecode(audioBuffer []int16) {
	if len(audioBuffer) == 0 {
		return
	}

	// Use DSP to decode the audio buffer
	decodeCount, err := e.dspEngine.DecodeBuffer(audioBuffer, func(result *dsp.DecodeResult) {
		msg := e.toProtocolMessage(result)

		// Queue the received message
		select {
		case e.rxMessages <- msg:
			log.Printf("RX decoded: %s (SNR: %ddB, Freq: %.1fHz, Type: %s)",
				result.Message, result.SNR, result.Frequency, e.getMessageType(result))
		default:
			log.Printf("RX buffer full, dropping message: %s", result.Message)
		}
	})

	if err != nil {
		log.Printf("Decode error: %v", err)
	} else if decodeCount > 0 {
		log.Printf("Decoded %d message(s) from audio buffer", decodeCount)
	}
}

// toProtocolMessage converts a codec decode result into a protocol message,
// reading the sender/recipient straight out of the decoded structured
// fields rather than re-parsing the display text.
func (e *CoreEngine) toProtocolMessage(result *dsp.DecodeResult) protocol.Message {
	fromCall := result.CallDe
	toCall := result.CallTo

	if result.Type != dsp.KindStandard {
		// Free text, telemetry, and non-standard messages carry no
		// structured callsigns.
		fromCall = "UNKNOWN"
		toCall = ""
	}

	return protocol.Message{
		ID:        int(time.Now().Unix()),
		Timestamp: time.Now(),
		From:      fromCall,
		To:        toCall,
		Message:   result.Message,
		SNR:       float32(result.SNR),
		Frequency: int(result.Frequency),
		Mode:      result.Mode,
	}
}

// getMessageType classifies a decode result for log output
func (e *CoreEngine) getMessageType(result *dsp.DecodeResult) string {
	switch result.Type {
	case dsp.KindStandard:
		if strings.HasPrefix(result.CallTo, "CQ") {
			return "CQ"
		}
		if e.config.Station.Callsign != "" && result.CallTo == e.config.Station.Callsign {
			return "DIRECTED"
		}
		return "STANDARD"
	case dsp.KindFreeText:
		return "FREETEXT"
	case dsp.KindTelemetry:
		return "TELEMETRY"
	case dsp.KindNonStandard:
		return "NONSTANDARD"
	default:
		return "UNKNOWN"
	}
}

// updateOLEDDisplay updates the OLED display with current station info
func (e *CoreEngine) updateOLEDDisplay(lastMessage string) {
	if e.hardwareManager == nil {
		return
	}

	callsign := e.config.Station.Callsign
	grid := e.config.Station.Grid
	frequency := e.frequency

	if err := e.hardwareManager.UpdateOLED(callsign, grid, frequency, lastMessage); err != nil {
		log.Printf("Warning: failed to update OLED: %v", err)
	}
}

// SetRadioFrequency sets the radio frequency and updates engine state
func (e *CoreEngine) SetRadioFrequency(freq int64) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	// Set radio frequency
	if err := e.hardwareManager.SetRadioFrequency(freq); err != nil {
		return fmt.Errorf("failed to set radio frequency: %w", err)
	}

	// Update engine frequency state
	e.frequency = int(freq)
	log.Printf("Engine: Radio frequency set to %.3f MHz", float64(freq)/1000000.0)
	return nil
}

// GetRadioFrequency gets the current radio frequency
func (e *CoreEngine) GetRadioFrequency() (int64, error) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.hardwareManager.GetRadioFrequency()
}

// SetRadioMode sets the radio mode for FT8/FT4 operation
func (e *CoreEngine) SetRadioMode(mode string, bandwidth int) error {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.hardwareManager.SetRadioMode(mode, bandwidth)
}

// EnablePTT enables PTT for transmission
func (e *CoreEngine) EnablePTT() error {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	// Set both GPIO and radio PTT
	if err := e.hardwareManager.SetPTT(true); err != nil {
		log.Printf("Warning: GPIO PTT failed: %v", err)
	}

	if err := e.hardwareManager.SetRadioPTT(true); err != nil {
		return fmt.Errorf("failed to enable radio PTT: %w", err)
	}

	log.Printf("Engine: PTT enabled")
	return nil
}

// DisablePTT disables PTT after transmission
func (e *CoreEngine) DisablePTT() error {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	// Disable both radio and GPIO PTT
	if err := e.hardwareManager.SetRadioPTT(false); err != nil {
		log.Printf("Warning: Radio PTT disable failed: %v", err)
	}

	if err := e.hardwareManager.SetPTT(false); err != nil {
		log.Printf("Warning: GPIO PTT disable failed: %v", err)
	}

	log.Printf("Engine: PTT disabled")
	return nil
}

// GetRadioStatus returns radio connection and status information
func (e *CoreEngine) GetRadioStatus() map[string]interface{} {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	status := map[string]interface{}{
		"connected": e.hardwareManager.IsRadioConnected(),
	}

	if freq, err := e.hardwareManager.GetRadioFrequency(); err == nil {
		status["frequency"] = freq
	}

	if mode, bandwidth, err := e.hardwareManager.GetRadioMode(); err == nil {
		status["mode"] = mode
		status["bandwidth"] = bandwidth
	}

	if ptt, err := e.hardwareManager.GetRadioPTT(); err == nil {
		status["ptt"] = ptt
	}

	if power, err := e.hardwareManager.GetRadioPowerLevel(); err == nil {
		status["power"] = power
	}

	if swr, err := e.hardwareManager.GetRadioSWRLevel(); err == nil {
		status["swr"] = swr
	}

	if signal, err := e.hardwareManager.GetRadioSignalLevel(); err == nil {
		status["signal"] = signal
	}

	return status
}
