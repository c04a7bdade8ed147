package pagemanager

const (
	pm_config = "pm_config"

	ddlPMConfig = `CREATE TABLE IF NOT EXISTS pm_config (
	namespace TEXT NOT NULL
	,key TEXT NOT NULL
	,value TEXT
	,PRIMARY KEY (namespace, key)
)`

	queryPMConfigValue = "SELECT value FROM pm_config WHERE namespace = ? AND key = ?"

	upsertPMConfig = `INSERT INTO pm_config (namespace, key, value) VALUES (?, ?, ?)
ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`

	seedPMConfig = `INSERT INTO pm_config (namespace, key, value) VALUES (?, ?, ?)
ON CONFLICT (namespace, key) DO NOTHING`
)
