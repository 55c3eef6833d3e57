// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package place

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing region identifier.
// Each handle creation assigns the next serial value; typestate-violation
// panics quote it so double-consume reports identify the offending region.
type Serial = uint32

// counter is the global monotonic counter for region serials.
var counter atomix.Uint32

// nextSerial returns the next monotonically increasing serial.
func nextSerial() Serial {
	return counter.Add(1)
}
