package netio

import "errors"

var (
	// ErrPortFull names a connection refused for exceeding the port cap.
	// No function in this package returns it: Listener.Accept logs the
	// rejection and closes the connection.
	ErrPortFull = errors.New("netio: port connection limit reached")

	// ErrListenerFull mirrors ErrPortFull for the per-listener cap; it is
	// not returned either.
	ErrListenerFull = errors.New("netio: listener connection limit reached")
)
