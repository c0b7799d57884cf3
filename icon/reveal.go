package icon

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/godbus/dbus"
	"github.com/skratchdot/open-golang/open"
)

var (
	showItems = dbusShowItems
	openPath  = open.Start
)

// Reveal shows path in the desktop file manager. The freedesktop FileManager1
// service is asked to select the folder, when it is not available the folder
// is opened with the default handler instead.
func Reveal(path string) error {
	err := showItems(path)
	if err == nil {
		return nil
	}
	slog.Debug("file manager service unavailable, opening folder", "folder", path, "error", err)

	if err := openPath(path); err != nil {
		return fmt.Errorf("could not reveal %q: %w", path, err)
	}
	return nil
}

func dbusShowItems(path string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("could not connect to session bus: %w", err)
	}

	uri := (&url.URL{Scheme: "file", Path: path}).String()
	obj := conn.Object("org.freedesktop.FileManager1", "/org/freedesktop/FileManager1")
	if call := obj.Call("org.freedesktop.FileManager1.ShowItems", 0, []string{uri}, ""); call.Err != nil {
		return fmt.Errorf("could not show %q: %w", path, call.Err)
	}
	return nil
}
