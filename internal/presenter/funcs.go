// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"math"
	"strings"
	"time"
)

func (p *Presenter) loc(val string) string {
	val = strings.ToLower(val)
	if raw, ok := i18nVars[val]; ok {
		return p.localizer.Get(raw)
	}
	return val
}

func (p *Presenter) meters(val float64) string {
	return p.humanizer.Intcomma(int64(math.Round(val))) + " m"
}

func degreeFormat(val float64) string {
	return fmt.Sprintf("%.1f°", val)
}

func durationFormat(val time.Duration) string {
	return val.Round(time.Millisecond).String()
}
