package gekko

// DefaultEditorModules is the module set of an editor session, in install
// order. A nil cfg means DefaultConfig.
func DefaultEditorModules(cfg *EditorConfig) []Module {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return []Module{
		LoggingModule{Config: &cfg.Logging},
		TimeModule{},
		InputModule{},
		HierarchyModule{},
		EditorModule{Config: cfg},
	}
}
