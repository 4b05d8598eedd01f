package database

// EngineHandle exposes the pooled handle of a connected Manager, or nil.
func EngineHandle(m *Manager) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.engine == nil {
		return nil
	}
	return m.engine.handle()
}
