// Package factory provides a small generic registry used to pick an
// implementation from configuration. A module is named by a type string and
// carries a map of raw settings; each factory decodes the settings into its
// own typed struct.
//
//	reg := factory.NewRegistry[board.StateStore]()
//	_ = reg.Register("file", func(conf map[string]any) (board.StateStore, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return statestore.NewFile(c.Path), nil
//	})
//	st, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "board.json"}})
package factory
