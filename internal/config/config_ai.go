package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnswerConfig returns the AI configuration for question answering with fallback to global config
func (c *Config) GetAnswerConfig() OperationAIConfig {
	config := c.AI.Answer
	c.applyOperationDefaults(&config)

	global := c.AI.CustomPrompts
	fallback(&config.CustomPrompts.SystemPrompts.Answer, global.SystemPrompts.Answer)
	fallback(&config.CustomPrompts.UserPrompts.Answer, global.UserPrompts.Answer)
	fallback(&config.CustomPrompts.SystemPrompts.AnswerFile, global.SystemPrompts.AnswerFile)
	fallback(&config.CustomPrompts.UserPrompts.AnswerFile, global.UserPrompts.AnswerFile)

	return config
}

// GetEntitiesConfig returns the AI configuration for entity extraction with fallback to global config
func (c *Config) GetEntitiesConfig() OperationAIConfig {
	config := c.AI.Entities
	c.applyOperationDefaults(&config)

	global := c.AI.CustomPrompts
	fallback(&config.CustomPrompts.SystemPrompts.Entities, global.SystemPrompts.Entities)
	fallback(&config.CustomPrompts.UserPrompts.Entities, global.UserPrompts.Entities)
	fallback(&config.CustomPrompts.SystemPrompts.EntitiesFile, global.SystemPrompts.EntitiesFile)
	fallback(&config.CustomPrompts.UserPrompts.EntitiesFile, global.UserPrompts.EntitiesFile)

	return config
}

func fallback(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
