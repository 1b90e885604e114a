package event

import (
	"fmt"
	"math/bits"

	"cellwin/internal/platform"
)

type KeyCode int

const (
	KeyUp KeyCode = iota + 1
	KeyDown
	KeyLeft
	KeyRight
	KeyLeftWord
	KeyRightWord
	KeyHome
	KeyHomeScreen
	KeyHomeLine
	KeyEnd
	KeyEndScreen
	KeyEndLine
	KeyScrollUp
	KeyScrollDown
	KeyScrollLeft
	KeyScrollRight
	KeyPageUp
	KeyPageDown
	KeyPageLeft
	KeyPageRight
	KeyEnter
	KeyTab
	KeyBackTab
	KeyInsert
	KeyInsertLine
	KeyInsertToggle
	KeyDelCharBack
	KeyDelCharFwd
	KeyDelLine
	KeyCopy
	KeyCopyLine
	KeyCancel
	KeyStop
	KeyContinue
	KeyPrint
	KeyPrintBlock
	KeyPrintScreen
	KeyFunction
	KeyMenu
)

var keyNames = map[KeyCode]string{
	KeyUp: "up", KeyDown: "down", KeyLeft: "left", KeyRight: "right",
	KeyLeftWord: "leftword", KeyRightWord: "rightword", KeyHome: "home",
	KeyHomeScreen: "homescreen", KeyHomeLine: "homeline", KeyEnd: "end",
	KeyEndScreen: "endscreen", KeyEndLine: "endline", KeyScrollUp: "scrollup",
	KeyScrollDown: "scrolldown", KeyScrollLeft: "scrollleft",
	KeyScrollRight: "scrollright", KeyPageUp: "pageup", KeyPageDown: "pagedown",
	KeyPageLeft: "pageleft", KeyPageRight: "pageright", KeyEnter: "enter",
	KeyTab: "tab", KeyBackTab: "backtab", KeyInsert: "insert",
	KeyInsertLine: "insertline", KeyInsertToggle: "inserttoggle",
	KeyDelCharBack: "delcharback", KeyDelCharFwd: "delcharfwd",
	KeyDelLine: "delline", KeyCopy: "copy", KeyCopyLine: "copyline",
	KeyCancel: "cancel", KeyStop: "stop", KeyContinue: "continue",
	KeyPrint: "print", KeyPrintBlock: "printblock",
	KeyPrintScreen: "printscreen", KeyFunction: "function", KeyMenu: "menu",
}

func (k KeyCode) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("key(%d)", int(k))
}

type keyEntry struct {
	vk   int
	mods int
	code KeyCode
}

// keyTable maps virtual keys under modifier sets to key codes. An entry
// matches when its modifiers are all held; see lookupKey for ranking.
var keyTable = []keyEntry{
	{platform.VKHome, 0, KeyHomeLine},
	{platform.VKHome, platform.ModCtrl, KeyHome},
	{platform.VKHome, platform.ModShift, KeyHomeScreen},
	{platform.VKEnd, 0, KeyEndLine},
	{platform.VKEnd, platform.ModCtrl, KeyEnd},
	{platform.VKEnd, platform.ModShift, KeyEndScreen},
	{platform.VKUp, 0, KeyUp},
	{platform.VKUp, platform.ModCtrl, KeyScrollUp},
	{platform.VKDown, 0, KeyDown},
	{platform.VKDown, platform.ModCtrl, KeyScrollDown},
	{platform.VKLeft, 0, KeyLeft},
	{platform.VKLeft, platform.ModCtrl, KeyLeftWord},
	{platform.VKLeft, platform.ModShift, KeyScrollLeft},
	{platform.VKLeft, platform.ModAlt, KeyPageLeft},
	{platform.VKRight, 0, KeyRight},
	{platform.VKRight, platform.ModCtrl, KeyRightWord},
	{platform.VKRight, platform.ModShift, KeyScrollRight},
	{platform.VKRight, platform.ModAlt, KeyPageRight},
	{platform.VKPageUp, 0, KeyPageUp},
	{platform.VKPageUp, platform.ModCtrl, KeyPageLeft},
	{platform.VKPageDown, 0, KeyPageDown},
	{platform.VKPageDown, platform.ModCtrl, KeyPageRight},
	{platform.VKInsert, 0, KeyInsert},
	{platform.VKInsert, platform.ModShift, KeyInsertToggle},
	{platform.VKInsert, platform.ModCtrl, KeyInsertLine},
	{platform.VKDelete, 0, KeyDelCharFwd},
	{platform.VKDelete, platform.ModCtrl, KeyDelLine},
	{platform.VKDelete, platform.ModShift, KeyCopy},
	{platform.VKDelete, platform.ModCtrl | platform.ModShift, KeyCopyLine},
	{platform.VKEscape, 0, KeyCancel},
	{platform.VKPrint, 0, KeyPrintScreen},
	{platform.VKPrint, platform.ModShift, KeyPrintBlock},
	{platform.VKPrint, platform.ModCtrl, KeyPrint},
	{platform.VKBackspace, 0, KeyDelCharBack},
	{platform.VKEnter, 0, KeyEnter},
	{platform.VKTab, 0, KeyTab},
	{platform.VKTab, platform.ModShift, KeyBackTab},
}

// modWeight breaks ties between entries holding the same number of
// modifiers: Ctrl outranks Shift outranks Alt.
func modWeight(mods int) int {
	w := 0
	if mods&platform.ModCtrl != 0 {
		w += 4
	}
	if mods&platform.ModShift != 0 {
		w += 2
	}
	if mods&platform.ModAlt != 0 {
		w++
	}
	return w
}

// lookupKey returns the most specific entry for vk whose modifiers are all
// held.
func lookupKey(vk, mods int) (KeyCode, bool) {
	best, rank := KeyCode(0), -1
	for _, e := range keyTable {
		if e.vk != vk || e.mods&^mods != 0 {
			continue
		}
		r := bits.OnesCount(uint(e.mods))*8 + modWeight(e.mods)
		if r > rank {
			best, rank = e.code, r
		}
	}
	return best, rank >= 0
}
