package services

import (
	"net"

	"go.uber.org/zap"

	"pulsera-firmware/config"
)

// WifiStation implements the link.Station contract for targets where the
// platform supplicant holds the SSID and passphrase. Association status is
// read back from the network interface; an empty interface name means "any
// up, non-loopback interface", which also covers development hosts.
type WifiStation struct {
	iface string
	ssid  string
	log   *zap.Logger
}

func NewWifiStation(cfg config.WifiConfig, log *zap.Logger) *WifiStation {
	return &WifiStation{iface: cfg.Interface, ssid: cfg.SSID, log: log}
}

// Associate hands the association request to the platform. On hosted targets
// the supplicant already owns the credentials, so there is nothing to send.
func (s *WifiStation) Associate() error {
	s.log.Info("associating", zap.String("ssid", s.ssid), zap.String("interface", s.iface))
	return nil
}

func (s *WifiStation) Associated() bool {
	return s.addr() != nil
}

func (s *WifiStation) IP() string {
	if ip := s.addr(); ip != nil {
		return ip.String()
	}
	return "0.0.0.0"
}

func (s *WifiStation) addr() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for _, iface := range ifaces {
		if s.iface != "" && iface.Name != s.iface {
			continue
		}
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return nil
}
