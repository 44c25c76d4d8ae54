package i

// PolicyLoader resolves and loads trained policy checkpoints.
type PolicyLoader interface {
	// Latest returns the path of the most recently written checkpoint for
	// the named environment, or an error if none exists.
	Latest(envName string) (string, error)

	// Load parses the checkpoint at path into a decision provider.
	Load(path string) (DecisionProvider, error)
}
