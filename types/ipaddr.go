// Copyright Cedar Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// ErrIP is wrapped by all IP address parsing errors.
var ErrIP = errors.New("error parsing ip value")

// IPAddr is a Cedar ipaddr literal: an IPv4 or IPv6 address or prefix.
type IPAddr struct {
	prefix netip.Prefix
}

// ParseIPAddr parses a Cedar ipaddr from a string. Both bare addresses
// ("192.168.0.1") and CIDR prefixes ("192.168.0.0/24") are accepted.
func ParseIPAddr(s string) (IPAddr, error) {
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return IPAddr{}, fmt.Errorf("%w: %v", ErrIP, err)
		}
		return IPAddr{prefix: prefix}, nil
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return IPAddr{}, fmt.Errorf("%w: %v", ErrIP, err)
	}
	return IPAddr{prefix: netip.PrefixFrom(addr, addr.BitLen())}, nil
}

func (IPAddr) isValue() {}

// String produces the canonical Cedar representation of the IPAddr. Bare
// addresses omit the prefix length.
func (i IPAddr) String() string {
	if i.prefix.Bits() == i.prefix.Addr().BitLen() {
		return i.prefix.Addr().String()
	}
	return i.prefix.String()
}

// IsIPv4 reports whether the address is IPv4.
func (i IPAddr) IsIPv4() bool {
	return i.prefix.Addr().Is4()
}

// IsIPv6 reports whether the address is IPv6.
func (i IPAddr) IsIPv6() bool {
	return i.prefix.Addr().Is6()
}

// Contains reports whether this prefix contains the other address.
func (i IPAddr) Contains(o IPAddr) bool {
	return i.prefix.Contains(o.prefix.Addr()) && i.prefix.Bits() <= o.prefix.Bits()
}
