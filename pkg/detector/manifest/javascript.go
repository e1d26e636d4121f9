package manifest

import (
	"errors"

	"github.com/tidwall/gjson"
)

func parsePackageJSON(m *Manifest, data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return errors.New("top level value is not an object")
	}

	m.Name = doc.Get("name").String()
	collect(doc.Get("dependencies"), m.Runtime)
	collect(doc.Get("peerDependencies"), m.Runtime)
	collect(doc.Get("devDependencies"), m.Dev)

	if scripts := doc.Get("scripts"); scripts.IsObject() {
		m.Scripts = map[string]string{}
		collect(scripts, m.Scripts)
	}
	return nil
}

func collect(group gjson.Result, into map[string]string) {
	if !group.IsObject() {
		return
	}
	group.ForEach(func(key, value gjson.Result) bool {
		into[key.String()] = value.String()
		return true
	})
}
