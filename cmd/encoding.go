package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/octotype/config"
)

var format string

// textFormat returns the --format flag, falling back to the configured output encoding.
func textFormat() string {
	if format != "" {
		return format
	}
	return cfg.Output.Encoding
}

func encodeText(buf []byte) (string, error) {
	switch textFormat() {
	case config.EncodingHex:
		return hex.EncodeToString(buf), nil
	case config.EncodingBase64:
		return base64.StdEncoding.EncodeToString(buf), nil
	default:
		return "", errors.Errorf("unknown format %s", textFormat())
	}
}

func decodeText(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	var buf []byte
	var err error
	switch textFormat() {
	case config.EncodingHex:
		buf, err = hex.DecodeString(text)
	case config.EncodingBase64:
		buf, err = base64.StdEncoding.DecodeString(text)
	default:
		return nil, errors.Errorf("unknown format %s", textFormat())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode %s input", textFormat())
	}
	return buf, nil
}
