package engine

const helpText = `## /remind help
- **help**: get this exact reply (e.g. ` + "`/remind help`" + `)
- **list**: list all your active reminders (e.g. ` + "`/remind list`" + `)
- **delete**: delete a reminder by ID (e.g. ` + "`/remind delete 12`" + `)
- **define**: define an alias for a group of users (e.g. ` + "`/remind define #engineering as @engineer1 @engineer2`" + `)
- **<username or group>**: set up a reminder for a user or group (e.g. ` + "`/remind #engineering to do sprint planning on Tuesday at 4am`" + `)`
