package aprs

import (
	"fmt"
	"strings"

	"packetchat/packet"
)

// Message field limits
const (
	addresseeLen  = 9
	maxMessageLen = 67
)

// padAddressee uppercases and fits an addressee to exactly nine characters.
func padAddressee(addressee string) string {
	to := strings.ToUpper(addressee)
	if len(to) > addresseeLen {
		to = to[:addresseeLen]
	}
	return to + strings.Repeat(" ", addresseeLen-len(to))
}

// BuildMessage builds the info field of an APRS message. Text longer than
// 67 characters is cut. A msgID of 0 (or less) sends no message id,
// otherwise the id modulo 1000 is appended as {NNN.
func BuildMessage(addressee, text string, msgID int) []byte {
	if r := []rune(text); len(r) > maxMessageLen {
		text = string(r[:maxMessageLen])
	}
	info := ":" + padAddressee(addressee) + ":" + text
	if msgID > 0 {
		info += fmt.Sprintf("{%03d", msgID%1000)
	}
	return []byte(info)
}

// BuildAck builds the acknowledgement for a received message id.
func BuildAck(addressee, msgID string) []byte {
	return []byte(":" + padAddressee(addressee) + ":ack" + msgID)
}

// parseMessage parses a message packet (data type ':').
// Format: :ADDRESSEE:message body{id
// It reports whether the message is an ack or rej.
func parseMessage(payload []byte) (packet.Message, bool, error) {
	sPayload := string(payload[1:]) // Skip data type ':'

	if len(sPayload) < 10 { // addressee (9 chars) + ':'
		return packet.Message{}, false, fmt.Errorf("message packet too short")
	}

	// 1. Find the addressee (must be 9 chars, padded with spaces)
	to := strings.TrimSpace(sPayload[0:9])
	if to == "" {
		return packet.Message{}, false, fmt.Errorf("message recipient is blank")
	}

	// 2. Check for the second ':'
	if sPayload[9] != ':' {
		return packet.Message{}, false, fmt.Errorf("missing message body separator ':'")
	}

	bodyPart := strings.TrimRight(sPayload[10:], "\r\n")

	// 3. Acks and rejects carry the id right after the keyword
	for _, kw := range []string{"ack", "rej"} {
		if id, ok := strings.CutPrefix(bodyPart, kw); ok && isMessageID(id) {
			return packet.Message{Addressee: to, ID: id, Rejected: kw == "rej"}, true, nil
		}
	}

	// 4. Find the message body and optional {id
	msg := packet.Message{Addressee: to}
	idIndex := strings.LastIndex(bodyPart, "{")
	if idIndex > 0 { // Check > 0 to ensure it's not the first char
		msg.Text = strings.TrimSpace(bodyPart[:idIndex])
		msg.ID = strings.TrimSpace(bodyPart[idIndex+1:])
		// Reply-ack form {MM}AA keeps only the message part
		if id, _, found := strings.Cut(msg.ID, "}"); found {
			msg.ID = id
		}
	} else {
		msg.Text = strings.TrimSpace(bodyPart)
	}

	if msg.Text == "" {
		return packet.Message{}, false, fmt.Errorf("message body is blank")
	}
	return msg, false, nil
}

// isMessageID accepts the 1-5 alphanumeric characters APRS allows.
func isMessageID(s string) bool {
	if len(s) == 0 || len(s) > 5 {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}

var telemetryKeywords = []string{
	"PARM.",
	"UNIT.",
	"EQNS.",
	"BITS.",
}

// isTelemetry checks if a message is an automated telemetry definition
// rather than something a person typed.
func isTelemetry(from string, msg packet.Message) bool {
	for _, kw := range telemetryKeywords {
		if strings.HasPrefix(msg.Text, kw) {
			return true
		}
	}
	return strings.Contains(from, "NWS")
}
