//go:build !linux

package hostbus

func openDevfs(int, uint16) (Bus, error) {
	return nil, ErrUnsupported
}
