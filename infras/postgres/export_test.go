package postgres

import "hostel/config"

func WriteDSN(cfg *config.Config) string {
	return writeEndpoint(cfg).dsn()
}

func ReadDSN(cfg *config.Config) (string, bool) {
	e, ok := readEndpoint(cfg)

	return e.dsn(), ok
}
