//go:build !ws281x

package ws281x

func New(Config) (*Strip, error) {
	logger.Warn("WS281x driver requested but not compiled in")
	return nil, ErrNotBuilt
}
