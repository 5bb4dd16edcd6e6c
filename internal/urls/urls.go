package urls

// Documentation URLs printed in troubleshooting hints.
// InfluxDB links point at the v2 documentation on docs.influxdata.com.

// APITokens explains how to create and scope InfluxDB API tokens.
const APITokens = "https://docs.influxdata.com/influxdb/v2/admin/tokens/"

// Organizations covers viewing and naming organizations.
const Organizations = "https://docs.influxdata.com/influxdb/v2/admin/organizations/"

// Buckets covers creating buckets and granting access to them.
const Buckets = "https://docs.influxdata.com/influxdb/v2/admin/buckets/"

// InstallGuide covers starting InfluxDB and the default 8086 listener.
const InstallGuide = "https://docs.influxdata.com/influxdb/v2/install/"

// ProjectHome is the fluxvision repository.
const ProjectHome = "https://github.com/muurk/fluxvision"
