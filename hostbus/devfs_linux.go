package hostbus

import "github.com/ajanata/drivers/i2cdev"

func openDevfs(bus int, addr uint16) (Bus, error) {
	b, err := i2cdev.Open(bus, addr)
	if err != nil {
		return nil, err
	}
	return b, nil
}
