package owl

import "github.com/BurntSushi/toml"

// decodeTOML parses a Config out of raw TOML bytes (the ambient
// configuration format the rest of this pack's services use).
func decodeTOML(data []byte, cfg *Config) error {
	_, err := toml.Decode(string(data), cfg)
	return err
}
